package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tvparse/internal/app"
)

var (
	extractSchedule string
	extractInput    string
	extractOutDir   string
	extractTZ       string
	extractTSColumn string
	extractForce    bool
	extractContinue bool
	extractWorkers  int
	extractNumbered bool
	extractPrefix   string
	extractPad      int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract run-schedule windows from a series CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractSchedule == "" || extractInput == "" {
			return fmt.Errorf("--schedule and --input must be provided")
		}

		opts := app.ExtractOptions{
			SchedulePath:    extractSchedule,
			SourcePath:      extractInput,
			OutDir:          extractOutDir,
			Timezone:        extractTZ,
			TSColumn:        extractTSColumn,
			Force:           extractForce,
			ContinueOnError: extractContinue,
			Workers:         extractWorkers,
			Numbered:        extractNumbered,
			Prefix:          extractPrefix,
			Pad:             extractPad,
		}
		return getApp().Extract(cmd.Context(), opts)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractSchedule, "schedule", "", "Path to run schedule file (date,start,entry,exit,end)")
	extractCmd.Flags().StringVar(&extractInput, "input", "", "Path to 1-min CSV to slice")
	extractCmd.Flags().StringVar(&extractOutDir, "out-dir", "", "Directory to write per-window CSVs (defaults beside input)")
	extractCmd.Flags().StringVar(&extractTZ, "tz", "", "Timezone name for schedule dates (e.g. UTC)")
	extractCmd.Flags().StringVar(&extractTSColumn, "ts-column", "", "Timestamp column name in the source CSV")
	extractCmd.Flags().BoolVar(&extractForce, "force", false, "Overwrite existing outputs")
	extractCmd.Flags().BoolVar(&extractContinue, "continue-on-error", false, "Continue to the next window if one fails")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "Number of concurrent window extractions")
	extractCmd.Flags().BoolVar(&extractNumbered, "numbered", false, "Write outputs as prefixNNN.csv (see --prefix/--pad)")
	extractCmd.Flags().StringVar(&extractPrefix, "prefix", "window", "Prefix used when --numbered")
	extractCmd.Flags().IntVar(&extractPad, "pad", 3, "Zero-pad width when --numbered")
}
