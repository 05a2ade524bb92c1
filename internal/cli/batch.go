package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/redline/internal/metrics"
	"github.com/ppiankov/redline/internal/model"
	"github.com/ppiankov/redline/internal/pipeline"
	"github.com/ppiankov/redline/internal/worker"
)

var (
	concurrency    int
	batchOutputDir string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Compare many drawing pairs from a manifest in parallel",
	Long: `Batch compares every BEFORE/AFTER pair listed in a YAML manifest:

  pairs:
    - name: A-101
      before: rev0/A-101.pdf
      after: rev1/A-101.pdf

Relative paths are resolved against the manifest's directory. A pair that
fails is reported and never stops the others. One JSON and one Markdown
report is written per pair.

Example:
  redline batch pairs.yaml
  redline batch pairs.yaml --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "number of pairs compared in parallel (default: config concurrency.workers)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "./reports", "output directory for reports")
	addRunFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Redline Batch Comparison\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifest:     %s\n", manifestPath)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", batchOutputDir)
	fmt.Fprintf(os.Stderr, "  Extract:      %s\n", cfg.Extract.Mode)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rec := metrics.NewRecorder()
	p := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger), pipeline.WithMetrics(rec))
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, logger.Named("batch"))

	results, err := processor.ProcessManifest(ctx, manifestPath)
	if err != nil {
		return fmt.Errorf("process manifest: %w", err)
	}

	renderer := p.Renderer()
	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Pair.Name, result.Error)
			continue
		}

		base := filepath.Join(batchOutputDir, fmt.Sprintf("%03d-%s", result.Index+1, sanitizeFilename(result.Pair.Name)))
		if err := renderer.RenderJSON(result.Report, base+".json"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Pair.Name, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, base+".md"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Pair.Name, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %s\n", result.Pair.Name, describeOutcome(result.Report))
	}

	summary := worker.Summarize(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:          %d pairs\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Identical:      %d\n", summary.Identical)
	for _, v := range []model.Verdict{model.VerdictAllResolved, model.VerdictPartial, model.VerdictNoneResolved, model.VerdictNoIssues} {
		fmt.Fprintf(os.Stderr, "  %-15s %d\n", string(v)+":", summary.ByVerdict[v])
	}
	fmt.Fprintf(os.Stderr, "  Failures:       %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Output:         %s\n", batchOutputDir)
	fmt.Fprintf(os.Stderr, "\n")

	writeMetrics(rec, logger)
	return nil
}

func describeOutcome(report *model.Report) string {
	if report.Identical {
		return "identical documents"
	}
	if report.Outcome == nil {
		return "no outcome"
	}
	return fmt.Sprintf("%s (%d%%)", report.Outcome.Verdict, report.Outcome.ResolutionRate)
}

// sanitizeFilename sanitizes a pair name for use as a file name
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))

	if s == "" || s == "." || s == ".." {
		s = "pair"
	}
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
