package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/redline/internal/metrics"
	"github.com/ppiankov/redline/internal/pipeline"
)

var (
	outJSON   string
	outMD     string
	outputDir string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <before> <after>",
	Short: "Compare a reviewed drawing with its revision",
	Long: `Compare reads a BEFORE drawing carrying review comments and an AFTER
revision carrying confirmation marks, then reports:
- which comments were resolved, and by which mark
- which comments are still pending
- new issue markers that appear only in AFTER
- a resolution rate and a verdict (ALL_RESOLVED, PARTIAL, NONE_RESOLVED, NO_ISSUES)

Byte-identical inputs are reported as identical documents without analysis.
Inputs may be local paths or http(s) URLs. The command exits 0 for every
verdict; it fails only when neither document can be read.

Example:
  redline compare A-101_rev0.pdf A-101_rev1.pdf
  redline compare before.pdf after.pdf --json report.json --md report.md
  redline compare before.pdf after.pdf --output-dir ./reports --extract auto
  redline compare before.pdf after.pdf --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	compareCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	compareCmd.Flags().StringVar(&outputDir, "output-dir", "", "write Redline_Report_<timestamp>.json/.md into this directory")
	addRunFlags(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	jsonPath, mdPath := outJSON, outMD
	if outputDir != "" {
		base := filepath.Join(outputDir, pipeline.ReportBaseName(time.Now()))
		if jsonPath == "" {
			jsonPath = base + ".json"
		}
		if mdPath == "" {
			mdPath = base + ".md"
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "BEFORE:  %s\n", args[0])
		fmt.Fprintf(os.Stderr, "AFTER:   %s\n", args[1])
		fmt.Fprintf(os.Stderr, "Extract: %s\n", cfg.Extract.Mode)
		fmt.Fprintf(os.Stderr, "Cache:   %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	rec := metrics.NewRecorder()
	p := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger), pipeline.WithMetrics(rec))
	p.Renderer().SetOutput(cmd.OutOrStdout())

	report, err := p.Compare(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if verbose && report.LLM != nil && report.LLM.Enabled {
		fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
	}

	if err := p.RenderReport(report, jsonPath, mdPath, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	writeMetrics(rec, logger)
	return nil
}

// writeMetrics writes the textfile when --metrics-file is set; a failure
// only warns
func writeMetrics(rec *metrics.Recorder, logger *zap.Logger) {
	if metricsFile == "" {
		return
	}
	if err := rec.WriteTextfile(metricsFile); err != nil {
		logger.Warn("metrics textfile not written", zap.String("path", metricsFile), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Warning: Failed to write metrics: %v\n", err)
		return
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote metrics: %s\n", metricsFile)
	}
}
