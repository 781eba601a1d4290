package cli

import (
	"github.com/spf13/cobra"

	"tvparse/internal/app"
)

var archiveInput string

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Load a merged series CSV into the bar archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Archive(cmd.Context(), app.ArchiveOptions{Input: archiveInput})
	},
}

func init() {
	archiveCmd.Flags().StringVar(&archiveInput, "input", "", "Merged CSV to archive")
}
