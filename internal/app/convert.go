package app

import (
	"errors"
	"fmt"

	"tvparse/internal/jsonconv"
)

// Convert turns a finished CSV series into NDJSON or a JSON array.
func (a *App) Convert(opts ConvertOptions) error {
	if opts.Input == "" || opts.Output == "" {
		return errors.New("--input and --output must be provided")
	}

	convOpts := jsonconv.Options{
		CamelCase:     opts.CamelCase,
		TimeColumn:    opts.TimeColumn,
		GenerateDTS:   opts.GenerateDTS,
		InterfaceName: opts.InterfaceName,
	}

	switch opts.Format {
	case "", "ndjson":
		if err := jsonconv.ToNDJSON(opts.Input, opts.Output, convOpts); err != nil {
			return err
		}
	case "array":
		if err := jsonconv.ToJSONArray(opts.Input, opts.Output, convOpts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want ndjson or array)", opts.Format)
	}

	a.Logger.Info().Str("input", opts.Input).Str("output", opts.Output).Str("format", opts.Format).Msg("conversion complete")
	fmt.Printf("Wrote %s\n", opts.Output)
	return nil
}
