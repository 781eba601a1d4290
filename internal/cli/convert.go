package cli

import (
	"github.com/spf13/cobra"

	"tvparse/internal/app"
)

var (
	convertInput      string
	convertOutput     string
	convertFormat     string
	convertCamelCase  bool
	convertDTS        bool
	convertInterface  string
	convertTimeColumn string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a series CSV to NDJSON or a JSON array",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ConvertOptions{
			Input:         convertInput,
			Output:        convertOutput,
			Format:        convertFormat,
			CamelCase:     convertCamelCase,
			GenerateDTS:   convertDTS,
			InterfaceName: convertInterface,
			TimeColumn:    convertTimeColumn,
		}
		return getApp().Convert(opts)
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "Input CSV path")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "Output JSON path")
	convertCmd.Flags().StringVar(&convertFormat, "format", "ndjson", "Output format: ndjson or array")
	convertCmd.Flags().BoolVar(&convertCamelCase, "camel-case", false, "Convert column names to camelCase")
	convertCmd.Flags().BoolVar(&convertDTS, "dts", false, "Generate a sibling .d.ts interface file")
	convertCmd.Flags().StringVar(&convertInterface, "interface", "Row", "Interface name used with --dts")
	convertCmd.Flags().StringVar(&convertTimeColumn, "time-column", "time", "Column coerced to integer seconds")
}
