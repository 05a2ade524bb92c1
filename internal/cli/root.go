// Package cli implements the redline command line.
//
// Grid positions in every report are synthetic: a cell is derived from the
// line index of the extracted text, not from a location on the drawing.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/redline/internal/logging"
	"github.com/ppiankov/redline/internal/model"
)

// Version is set at build time with -ldflags "-X"
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "redline",
	Short: "Redline - review markup reconciliation for drawing revisions",
	Long: `Redline compares a reviewed drawing (BEFORE) with its revision (AFTER).

It finds reviewer comments in BEFORE, confirmation marks in AFTER, pairs
them by nearby grid cell or shared words, and reports which comments were
resolved, which are still pending, and which new issues appeared.

Grid cells are synthetic: row = line / 10, column = line % 10 of the
extracted text. They are not positions measured on the drawing sheet.

Redline reports heuristics. Review the pairings before signing off.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Redline.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "redline %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.redline/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".redline"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// REDLINE_EXTRACT_MODE overrides extract.mode
	viper.SetEnvPrefix("REDLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newLogger builds the structured logger for a command; --verbose lowers
// the level to debug
func newLogger(cfg *model.Config) *zap.Logger {
	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		return zap.NewNop()
	}
	return logger
}
