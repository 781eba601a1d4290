package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tvparse/internal/app"
)

var (
	showInput string
	showLimit int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize a series CSV or display recent archived bars",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showInput == "" && showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		opts := app.ShowOptions{
			Input: showInput,
			Limit: showLimit,
		}
		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showInput, "input", "", "Series CSV to summarize (defaults to the archive)")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of archived bars to display")
}
