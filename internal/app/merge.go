package app

import (
	"context"
	"errors"
	"fmt"

	"tvparse/internal/csvio"
	"tvparse/internal/fetch"
	"tvparse/internal/series"
)

// Merge reconciles the input sources into one canonical ordered series and
// writes it, or prints a summary under dry-run.
func (a *App) Merge(ctx context.Context, opts MergeOptions) error {
	sources, err := a.gatherSources(ctx, opts)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New("no input files specified")
	}

	strategy, err := series.ParseStrategy(a.resolve(opts.Dedupe, a.Config.Merge.DedupeStrategy))
	if err != nil {
		return err
	}
	order, err := series.ParseSortOrder(a.resolve(opts.SortOrder, a.Config.Merge.SortOrder))
	if err != nil {
		return err
	}
	dropIncomplete := a.Config.Merge.DropIncomplete
	if opts.DropIncomplete != nil {
		dropIncomplete = *opts.DropIncomplete
	}

	a.Logger.Info().Int("sources", len(sources)).Str("dedupe", string(strategy)).Msg("merging inputs")

	merged, err := series.Merge(sources, series.MergeOptions{
		Strategy:       strategy,
		DropIncomplete: dropIncomplete,
		Order:          order,
	})
	if err != nil {
		return fmt.Errorf("merge inputs: %w", err)
	}

	if opts.DryRun {
		printSummary(series.Summarize(merged))
		return nil
	}

	if opts.Output == "" {
		return errors.New("no --output specified; provide --output or use --dry-run")
	}

	if err := csvio.WriteFile(series.ToTable(merged), opts.Output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	a.Logger.Info().Int("rows", len(merged)).Str("path", opts.Output).Msg("merged series written")
	fmt.Printf("Wrote %d rows to %s\n", len(merged), opts.Output)
	return nil
}

// gatherSources expands explicit inputs, directories, globs, and URLs into
// merge sources, preserving the given order so last/first tie-breaking
// stays deterministic.
func (a *App) gatherSources(ctx context.Context, opts MergeOptions) ([]series.Source, error) {
	refs := opts.Inputs
	if len(refs) == 0 && opts.InputDir != "" {
		refs = []string{opts.InputDir}
	}

	var fetcher = a.newFetcher()
	var out []series.Source
	for _, ref := range refs {
		if fetch.IsURL(ref) {
			table, err := fetcher.Fetch(ctx, ref)
			if err != nil {
				return nil, err
			}
			out = append(out, series.Source{Name: ref, Table: table})
			continue
		}

		paths, err := csvio.Discover(ref)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no CSV files discovered from %q", ref)
		}
		for _, p := range paths {
			out = append(out, series.Source{Path: p})
		}
	}
	return out, nil
}

func (a *App) resolve(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func printSummary(s series.Summary) {
	fmt.Println("Summary:")
	fmt.Printf("  rows: %d\n", s.Rows)
	fmt.Printf("  start_time: %s\n", formatOptional(s.StartTime))
	fmt.Printf("  end_time: %s\n", formatOptional(s.EndTime))
	fmt.Printf("  duplicates: %d\n", s.Duplicates)
	fmt.Printf("  total_volume: %s\n", s.TotalVolume.String())
}

func formatOptional(v *int64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *v)
}
