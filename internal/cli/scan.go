package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/redline/internal/classify"
	"github.com/ppiankov/redline/internal/extract"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <document>",
	Short: "Classify the lines of one document",
	Long: `Scan runs the line classifier on a single document and prints the
result as JSON: issue markers, resolution markers, dimension callouts, and
annotations, each with its synthetic grid cell.

Example:
  redline scan A-101_rev0.pdf
  redline scan https://example.com/drawings/A-101.pdf --extract auto`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var scanExtractMode string

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanExtractMode, "extract", "", "extraction mode: raw or auto")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if scanExtractMode != "" {
		mode, err := parseExtractMode(scanExtractMode)
		if err != nil {
			return err
		}
		cfg.Extract.Mode = mode
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTP.Timeout)
	defer cancel()

	extractor := extract.NewExtractor(cfg.Extract, extract.NewFetcher(cfg.HTTP), logger.Named("extract"))
	doc, err := extractor.Extract(ctx, args[0], "")
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	result := classify.NewClassifier().Classify(doc.Text)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
