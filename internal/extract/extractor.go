// Package extract locates the rows of a source table falling inside an
// absolute time window and writes each window to its own output file.
package extract

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tvparse/internal/csvio"
	"tvparse/internal/schedule"
)

// ErrMissingTimestampColumn indicates the configured timestamp column is
// absent from the source schema.
var ErrMissingTimestampColumn = errors.New("extract: timestamp column not found")

// Slice returns the rows of t whose tsColumn value falls inside the window
// bounds, inclusive on both ends. Rows with a non-numeric timestamp cell
// are skipped. Original columns and row order are preserved; an empty
// result is valid.
func Slice(t *csvio.Table, tsColumn string, w schedule.Window) (*csvio.Table, error) {
	idx, ok := t.Column(tsColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingTimestampColumn, tsColumn)
	}

	out := &csvio.Table{Header: append([]string(nil), t.Header...)}
	for _, rec := range t.Records {
		if idx >= len(rec) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
		if err != nil {
			continue
		}
		ts := int64(v)
		if ts >= w.StartTS && ts <= w.EndTS {
			out.Records = append(out.Records, rec)
		}
	}
	return out, nil
}

// WriteWindow persists a sliced table atomically and returns the number of
// data rows written.
func WriteWindow(sub *csvio.Table, path string) (int, error) {
	err := csvio.WriteAtomic(path, func(w io.Writer) error {
		return csvio.Write(w, sub)
	})
	if err != nil {
		return 0, err
	}
	return sub.Len(), nil
}
