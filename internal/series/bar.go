// Package series implements the canonical minute-bar model: normalization
// of raw row tables into typed bars, timestamp deduplication, and merging
// of overlapping sources into one ordered series.
package series

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"tvparse/internal/csvio"
)

// ErrMissingColumns indicates a source lacks one or more required columns.
var ErrMissingColumns = errors.New("series: missing required columns")

// Canonical column names, in output order.
var RequiredColumns = []string{"time", "open", "high", "low", "close", "volume"}

// Bar is one minute-bar observation. Missing numeric fields are NaN; a bar
// without a usable timestamp has HasTime false.
type Bar struct {
	Time    int64
	HasTime bool
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  float64
}

// Complete reports whether all six fields are present.
func (b Bar) Complete() bool {
	if !b.HasTime {
		return false
	}
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Series is an ordered collection of bars. After deduplication no two bars
// share a timestamp; after merging it is sorted per the configured order.
type Series []Bar

// Strategy selects which bar survives among rows sharing a timestamp.
type Strategy string

const (
	// StrategyLast keeps the row appearing latest in input order, so a
	// later source file wins over an earlier one.
	StrategyLast Strategy = "last"
	// StrategyFirst keeps the earliest-appearing row.
	StrategyFirst Strategy = "first"
	// StrategyMaxVolume keeps the row with the greatest volume; ties
	// resolve to the earliest in input order.
	StrategyMaxVolume Strategy = "max_volume"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyLast, StrategyFirst, StrategyMaxVolume:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown dedupe strategy: %q", s)
}

// SortOrder is the timestamp ordering of a merged series.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder validates a sort order name.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case Ascending, Descending:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order: %q", s)
}

// ToTable renders the series as a canonical-column row table. Missing
// fields become empty cells.
func ToTable(s Series) *csvio.Table {
	t := &csvio.Table{Header: append([]string(nil), RequiredColumns...)}
	for _, b := range s {
		rec := make([]string, 0, len(RequiredColumns))
		if b.HasTime {
			rec = append(rec, strconv.FormatInt(b.Time, 10))
		} else {
			rec = append(rec, "")
		}
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			rec = append(rec, formatCell(v))
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
