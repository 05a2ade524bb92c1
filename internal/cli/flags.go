package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/redline/internal/model"
)

// Flags shared by compare and batch
var (
	timeout     time.Duration
	extractMode string
	noCache     bool
	noFooter    bool
	insecureTLS bool
	noRobots    bool
	metricsFile string
	llmProvider string
	llmModel    string
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	cmd.Flags().StringVar(&extractMode, "extract", "", "extraction mode: raw (lossy byte decoding) or auto (PDF/HTML aware)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the scan cache")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification for URL inputs")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt for URL inputs")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	cmd.Flags().StringVar(&llmProvider, "llm", "", "enable LLM narrative with provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// applyRunFlags overrides configuration with flags the user actually set
func applyRunFlags(cmd *cobra.Command, cfg *model.Config) error {
	flags := cmd.Flags()

	cfg.Output.Verbose = verbose
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if flags.Changed("extract") {
		mode, err := parseExtractMode(extractMode)
		if err != nil {
			return err
		}
		cfg.Extract.Mode = mode
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if insecureTLS {
		cfg.HTTP.InsecureTLS = true
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}

	if flags.Changed("llm") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}

	return applyLLMEnv(cfg)
}

// applyLLMEnv fills provider credentials from the environment
func applyLLMEnv(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "":
		return nil
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
		if cfg.LLM.Model == "" {
			return fmt.Errorf("ollama requires --llm-model")
		}
	default:
		return fmt.Errorf("unknown LLM provider %q (want openai or ollama)", cfg.LLM.Provider)
	}
	return nil
}

func parseExtractMode(s string) (model.ExtractMode, error) {
	switch mode := model.ExtractMode(s); mode {
	case model.ExtractModeRaw, model.ExtractModeAuto:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown extraction mode %q (want raw or auto)", s)
	}
}
