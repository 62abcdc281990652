package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"principia/internal/config"
	"principia/internal/driver"
	"principia/internal/logging"
)

var (
	// Global flags
	verbose bool
	noColor bool

	cfg *config.Config
)

// rootCmd checks library files in order against a single run state.
var rootCmd = &cobra.Command{
	Use:   "principia [files...]",
	Short: "principia - a logical-framework proof checker",
	Long: `principia checks proof libraries written as s-expression files.

Each file declares rules (postulate), proves new ones (theorem, lemma),
and may pull in other files (include). Proofs are checked mechanically by
schema instantiation; nothing is searched for. Theorems resting on
admitted leaves (sorry) are flagged separately from fully checked ones.`,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(".")
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		if noColor {
			cfg.Reporting.Color = false
		}
		if err := logging.Initialize(cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		report := driver.NewReporter(os.Stdout, cfg.Reporting.Color)
		runner := driver.NewRunner(driver.NewState(), report,
			logging.L(logging.CategoryDriver), cfg.IncludePaths)

		for _, path := range args {
			if err := runner.CheckFile(path); err != nil {
				report.CommandError(err)
			}
		}
		if report.Failed > 0 {
			cmd.SilenceUsage = true
			return fmt.Errorf("%d command(s) failed", report.Failed)
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug diagnostics")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
