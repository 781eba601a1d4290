package cli

import (
	"github.com/spf13/cobra"

	"tvparse/internal/app"
)

var (
	mergeInputs         []string
	mergeInputDir       string
	mergeOutput         string
	mergeDedupe         string
	mergeDropIncomplete bool
	mergeSortOrder      string
	mergeDryRun         bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge source CSVs into one normalized, deduplicated series",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.MergeOptions{
			Inputs:    mergeInputs,
			InputDir:  mergeInputDir,
			Output:    mergeOutput,
			Dedupe:    mergeDedupe,
			SortOrder: mergeSortOrder,
			DryRun:    mergeDryRun,
		}
		if cmd.Flags().Changed("drop-incomplete") {
			opts.DropIncomplete = &mergeDropIncomplete
		}
		return getApp().Merge(cmd.Context(), opts)
	},
}

func init() {
	mergeCmd.Flags().StringArrayVarP(&mergeInputs, "input", "i", nil, "Input CSV file, glob, directory, or URL (repeatable)")
	mergeCmd.Flags().StringVar(&mergeInputDir, "input-dir", "", "Directory containing input CSV files (reads *.csv)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output CSV path")
	mergeCmd.Flags().StringVar(&mergeDedupe, "dedupe", "", "Deduplication strategy: last, first, or max_volume")
	mergeCmd.Flags().BoolVar(&mergeDropIncomplete, "drop-incomplete", true, "Drop rows with missing fields during normalization")
	mergeCmd.Flags().StringVar(&mergeSortOrder, "sort-order", "", "Sort order for the output: asc or desc")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Do not write output; print a summary of the merged data")
}
