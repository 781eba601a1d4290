package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"tvparse/internal/csvio"
	"tvparse/internal/series"
)

// Show prints a summary of a CSV series, or the most recent archived bars
// when no input path is given.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	if opts.Input != "" {
		raw, err := csvio.ReadFile(opts.Input)
		if err != nil {
			return err
		}
		bars, err := series.Normalize(raw, false)
		if err != nil {
			return err
		}
		printSummary(series.Summarize(bars))
		return nil
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("no --input given and database not configured")
	}
	defer closeStore()

	total, err := store.CountBars(ctx)
	if err != nil {
		return err
	}
	bars, err := store.ListRecentBars(ctx, opts.Limit)
	if err != nil {
		return err
	}

	fmt.Printf("%d bars archived; showing %d most recent:\n", total, len(bars))
	for _, b := range bars {
		fmt.Printf("%s  o=%s h=%s l=%s c=%s v=%s\n",
			time.Unix(b.Time, 0).UTC().Format(time.RFC3339),
			cell(b.Open), cell(b.High), cell(b.Low), cell(b.Close), cell(b.Volume))
	}
	return nil
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return decimal.NewFromFloat(v).String()
}
