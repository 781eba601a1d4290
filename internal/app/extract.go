package app

import (
	"context"
	"fmt"

	"tvparse/internal/extract"
)

// Extract slices every window of a run schedule out of the source series.
func (a *App) Extract(ctx context.Context, opts ExtractOptions) error {
	orcOpts := extract.Options{
		SchedulePath:    opts.SchedulePath,
		SourcePath:      opts.SourcePath,
		OutDir:          opts.OutDir,
		TZ:              a.resolve(opts.Timezone, a.Config.Extract.Timezone),
		TSColumn:        a.resolve(opts.TSColumn, a.Config.Extract.TimestampColumn),
		Force:           opts.Force,
		ContinueOnError: opts.ContinueOnError,
		Workers:         opts.Workers,
		Numbered:        opts.Numbered,
		Prefix:          opts.Prefix,
		Pad:             opts.Pad,
	}
	if orcOpts.Workers < 1 {
		orcOpts.Workers = a.Config.Extract.Workers
	}

	res, err := extract.New(a.Logger).Run(ctx, orcOpts)

	for _, w := range res.Windows {
		switch {
		case w.Err != nil:
			fmt.Printf("failed  %s: %v\n", w.Window.Label, w.Err)
		case w.Skipped:
			fmt.Printf("skipped %s (exists)\n", w.Window.Label)
		default:
			fmt.Printf("wrote   %s (%d rows)\n", w.Path, w.Rows)
		}
	}
	fmt.Printf("Wrote %d window files\n", len(res.Written))

	return err
}
