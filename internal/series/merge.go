package series

import (
	"fmt"
	"sort"

	"tvparse/internal/csvio"
)

// Source supplies one raw table to a merge. When Table is nil the table is
// loaded from Path. Name is used for error context and defaults to Path.
type Source struct {
	Name  string
	Path  string
	Table *csvio.Table
}

func (s Source) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Path
}

func (s Source) load() (*csvio.Table, error) {
	if s.Table != nil {
		return s.Table, nil
	}
	return csvio.ReadFile(s.Path)
}

// MergeOptions are the explicit merge policies; defaults come from
// configuration, not ambient state.
type MergeOptions struct {
	Strategy       Strategy
	DropIncomplete bool
	Order          SortOrder
}

// Merge normalizes each source, concatenates them in input order (source
// order drives last/first tie-breaking), deduplicates, and stable-sorts by
// timestamp. Empty input yields an empty series, not an error.
func Merge(sources []Source, opts MergeOptions) (Series, error) {
	combined := make(Series, 0)
	for _, src := range sources {
		raw, err := src.load()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src.label(), err)
		}
		norm, err := Normalize(raw, opts.DropIncomplete)
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", src.label(), err)
		}
		combined = append(combined, norm...)
	}

	deduped, err := Deduplicate(combined, opts.Strategy)
	if err != nil {
		return nil, err
	}

	Sort(deduped, opts.Order)
	return deduped, nil
}

// Sort stable-sorts the series by timestamp in the given order. Bars
// without a timestamp sort last regardless of direction.
func Sort(s Series, order SortOrder) {
	asc := order != Descending
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i], s[j]
		if !a.HasTime || !b.HasTime {
			return a.HasTime && !b.HasTime
		}
		if asc {
			return a.Time < b.Time
		}
		return a.Time > b.Time
	})
}
