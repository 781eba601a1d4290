package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tvparse/internal/csvio"
	"tvparse/internal/schedule"
)

// Options drive one schedule extraction run.
type Options struct {
	SchedulePath    string
	SourcePath      string
	OutDir          string // defaults to the source file's directory
	TZ              string
	TSColumn        string
	Force           bool
	ContinueOnError bool
	Workers         int

	// Numbered switches output naming from "<stem>_<label>.csv" to
	// sequential "<prefix>NNN.csv" zero-padded to Pad digits.
	Numbered bool
	Prefix   string
	Pad      int
}

// WindowResult records the outcome for one schedule window.
type WindowResult struct {
	Window  schedule.Window
	Path    string
	Rows    int
	Skipped bool
	Err     error
}

// Result summarizes an extraction run.
type Result struct {
	Written []string
	Windows []WindowResult
}

// Orchestrator drives the schedule parser and window extractor over one
// source series.
type Orchestrator struct {
	logger zerolog.Logger
}

// New constructs an orchestrator.
func New(logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{logger: logger.With().Str("component", "extract").Logger()}
}

// Run parses the schedule, then extracts every window in schedule order.
// The source is loaded once and read-only thereafter, so windows are
// independent; with Workers > 1 they run concurrently. A per-window
// failure aborts the run unless ContinueOnError is set, in which case it
// is recorded and the remaining windows proceed, with the failures joined
// into the returned error.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (Result, error) {
	windows, err := schedule.ParseFile(opts.SchedulePath, opts.TZ)
	if err != nil {
		return Result{}, err
	}

	source, err := csvio.ReadFile(opts.SourcePath)
	if err != nil {
		return Result{}, err
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Dir(opts.SourcePath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create out dir: %w", err)
	}

	tsColumn := opts.TSColumn
	if tsColumn == "" {
		tsColumn = "ts"
	}

	results := make([]WindowResult, len(windows))
	for i, w := range windows {
		results[i] = WindowResult{
			Window: w,
			Path:   filepath.Join(outDir, o.fileName(opts, w, i+1)),
		}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range results {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o.runWindow(source, tsColumn, opts.Force, &results[i])
			if results[i].Err != nil && !opts.ContinueOnError {
				return fmt.Errorf("window %s: %w", results[i].Window.Label, results[i].Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Windows: results}, err
	}

	res := Result{Windows: results}
	var failures []error
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, fmt.Errorf("window %s: %w", r.Window.Label, r.Err))
			continue
		}
		if !r.Skipped {
			res.Written = append(res.Written, r.Path)
		}
	}
	return res, errors.Join(failures...)
}

func (o *Orchestrator) runWindow(source *csvio.Table, tsColumn string, force bool, r *WindowResult) {
	if !force {
		if _, err := os.Stat(r.Path); err == nil {
			r.Skipped = true
			o.logger.Info().Str("window", r.Window.Label).Str("path", r.Path).Msg("output exists, skipping")
			return
		}
	}

	sub, err := Slice(source, tsColumn, r.Window)
	if err != nil {
		r.Err = err
		o.logger.Error().Err(err).Str("window", r.Window.Label).Msg("window extraction failed")
		return
	}

	rows, err := WriteWindow(sub, r.Path)
	if err != nil {
		r.Err = err
		o.logger.Error().Err(err).Str("window", r.Window.Label).Msg("window write failed")
		return
	}

	r.Rows = rows
	o.logger.Info().Str("window", r.Window.Label).Str("path", r.Path).Int("rows", rows).Msg("window written")
}

// fileName derives a deterministic, filesystem-safe output name from the
// source stem and the window label, or a sequential name when numbered.
func (o *Orchestrator) fileName(opts Options, w schedule.Window, index int) string {
	if opts.Numbered {
		prefix := opts.Prefix
		if prefix == "" {
			prefix = "window"
		}
		pad := opts.Pad
		if pad <= 0 {
			pad = 3
		}
		return fmt.Sprintf("%s%0*d.csv", prefix, pad, index)
	}

	base := filepath.Base(opts.SourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%s.csv", stem, sanitize(w.Label))
}

// sanitize strips characters unsafe in filenames.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, s)
}
