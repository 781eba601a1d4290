package app

import (
	"context"
	"errors"
	"fmt"

	"tvparse/internal/csvio"
	"tvparse/internal/series"
)

// Archive loads a merged CSV series into the PostgreSQL bar archive.
func (a *App) Archive(ctx context.Context, opts ArchiveOptions) error {
	if opts.Input == "" {
		return errors.New("--input must be provided")
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database.dsn not configured; cannot archive")
	}
	defer closeStore()

	raw, err := csvio.ReadFile(opts.Input)
	if err != nil {
		return err
	}
	bars, err := series.Normalize(raw, true)
	if err != nil {
		return err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	written, err := store.UpsertBars(ctx, bars)
	if err != nil {
		return err
	}

	a.Logger.Info().Int64("bars", written).Str("input", opts.Input).Msg("series archived")
	fmt.Printf("Archived %d bars from %s\n", written, opts.Input)
	return nil
}
