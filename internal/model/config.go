package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete redline configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig controls fetching of documents given as http(s) URLs
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS       bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
}

// ExtractMode selects how raw bytes become text
type ExtractMode string

const (
	ExtractModeRaw  ExtractMode = "raw"  // Decode the byte stream as text, lossy
	ExtractModeAuto ExtractMode = "auto" // Sniff format, use PDF/HTML decoders when possible
)

// ExtractConfig controls the content extractor
type ExtractConfig struct {
	Mode     ExtractMode `yaml:"mode" mapstructure:"mode"`
	MaxBytes int64       `yaml:"max_bytes" mapstructure:"max_bytes"`
	MaxPages int         `yaml:"max_pdf_pages" mapstructure:"max_pdf_pages"`
}

// CacheConfig controls the ScanResult cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	DPI           int  `yaml:"dpi" mapstructure:"dpi"`
	PreviewRows   int  `yaml:"preview_rows" mapstructure:"preview_rows"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// LLMConfig controls the optional narrative summary
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // openai, ollama, or empty
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL        string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout        int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictEvidence bool   `yaml:"strict_evidence" mapstructure:"strict_evidence"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "redline-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".redline", "cache")
	}

	return &Config{
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "Redline/0.1 (+https://github.com/ppiankov/redline)",
			MaxBodyBytes:      50_000_000,
			RespectRobots:     true,
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Extract: ExtractConfig{
			Mode:     ExtractModeRaw,
			MaxBytes: 50_000_000,
			MaxPages: 50,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			DPI:           DefaultDPI,
			PreviewRows:   10,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		LLM: LLMConfig{
			Timeout:        30,
			MaxTokens:      800,
			StrictEvidence: true,
		},
	}
}
