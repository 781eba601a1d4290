package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"tvparse/internal/csvio"
	"tvparse/internal/series"
)

// Export renders a series as a PNG time-series chart. The series comes
// from a CSV file, or from the bar archive when no input path is given.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.PNGPath == "" {
		return errors.New("--png must be provided")
	}
	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	bars, err := a.exportSeries(ctx, opts)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		a.Logger.Info().Msg("no bars found for export window")
		return nil
	}

	bars = clampRange(bars, opts.From, opts.To)
	downsampled := downsample(bars, opts.MaxPoints)
	a.Logger.Info().Int("total", len(bars)).Int("exported", len(downsampled)).Msg("exporting bars")

	return a.writePNG(opts.PNGPath, downsampled)
}

func (a *App) exportSeries(ctx context.Context, opts ExportOptions) (series.Series, error) {
	if opts.Input != "" {
		raw, err := csvio.ReadFile(opts.Input)
		if err != nil {
			return nil, err
		}
		bars, err := series.Normalize(raw, true)
		if err != nil {
			return nil, err
		}
		series.Sort(bars, series.Ascending)
		return bars, nil
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("no --input given and database not configured")
	}
	defer closeStore()

	from := int64(0)
	to := time.Now().UTC().Unix()
	if opts.From != nil {
		from = opts.From.Unix()
	}
	if opts.To != nil {
		to = opts.To.Unix()
	}
	return store.ListBarsBetween(ctx, from, to)
}

func clampRange(bars series.Series, from, to *time.Time) series.Series {
	out := bars[:0:0]
	for _, b := range bars {
		if from != nil && b.Time < from.Unix() {
			continue
		}
		if to != nil && b.Time > to.Unix() {
			continue
		}
		out = append(out, b)
	}
	return out
}

func downsample(bars series.Series, max int) series.Series {
	if max <= 0 || len(bars) <= max {
		return bars
	}

	result := make(series.Series, 0, max)
	step := float64(len(bars)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(bars) {
			idx = len(bars) - 1
		}
		result = append(result, bars[idx])
	}
	return result
}

func (a *App) writePNG(path string, bars series.Series) error {
	x := make([]time.Time, len(bars))
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))

	for i, b := range bars {
		x[i] = time.Unix(b.Time, 0).UTC()
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  a.Config.Export.ChartWidth,
		Height: a.Config.Export.ChartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Close",
			ValueFormatter: priceFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Volume",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Close",
				XValues: x,
				YValues: closes,
			},
			chart.TimeSeries{
				Name:    "Volume",
				XValues: x,
				YValues: volumes,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	err := csvio.WriteAtomic(path, func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	})
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	a.Logger.Info().Str("path", path).Int("points", len(bars)).Msg("chart written")
	return nil
}
