package series

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"tvparse/internal/csvio"
)

// columnAliases maps raw column spellings (lowercased) to canonical names.
var columnAliases = map[string]string{
	"time":      "time",
	"timestamp": "time",
	"datetime":  "time",
	"date":      "time",
	"t":         "time",
	"o":         "open",
	"open":      "open",
	"h":         "high",
	"high":      "high",
	"l":         "low",
	"low":       "low",
	"c":         "close",
	"close":     "close",
	"v":         "volume",
	"vol":       "volume",
	"volume":    "volume",
}

// millisThreshold: a median timestamp above this is taken to be
// milliseconds since epoch and scaled down to seconds.
const millisThreshold = 1e12

func canonicalName(raw string) string {
	low := strings.ToLower(strings.TrimSpace(raw))
	if canon, ok := columnAliases[low]; ok {
		return canon
	}
	return low
}

// Normalize canonicalizes a raw table into a series: column-name
// reconciliation, numeric coercion, and ms->s timestamp scaling. The output
// carries no ordering guarantee; sorting is Merge's job. When
// dropIncomplete is false, rows with missing fields are retained with the
// gaps left unset.
func Normalize(t *csvio.Table, dropIncomplete bool) (Series, error) {
	if t == nil || (len(t.Header) == 0 && t.Len() == 0) {
		return Series{}, nil
	}

	// Group raw column indices by canonical name. Multiple raw columns may
	// map onto one canonical field; per row the first non-empty value wins.
	groups := make(map[string][]int, len(t.Header))
	for i, h := range t.Header {
		name := canonicalName(h)
		groups[name] = append(groups[name], i)
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := groups[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	cell := func(rec []string, name string) string {
		for _, idx := range groups[name] {
			if idx < len(rec) && strings.TrimSpace(rec[idx]) != "" {
				return strings.TrimSpace(rec[idx])
			}
		}
		return ""
	}

	// First pass: parse the time column so the ms/s scale can be detected
	// from the median magnitude before bars are assembled.
	times := make([]float64, t.Len())
	for i, rec := range t.Records {
		times[i] = parseNumeric(cell(rec, "time"))
	}
	scaleDown := medianExceeds(times, millisThreshold)

	out := make(Series, 0, t.Len())
	for i, rec := range t.Records {
		b := Bar{
			Open:   parseNumeric(cell(rec, "open")),
			High:   parseNumeric(cell(rec, "high")),
			Low:    parseNumeric(cell(rec, "low")),
			Close:  parseNumeric(cell(rec, "close")),
			Volume: parseNumeric(cell(rec, "volume")),
		}
		if tv := times[i]; !math.IsNaN(tv) {
			b.HasTime = true
			b.Time = int64(tv)
			if scaleDown {
				b.Time /= 1000
			}
		}
		if dropIncomplete && !b.Complete() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// parseNumeric coerces a cell to float64, NaN when it does not look
// numeric.
func parseNumeric(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// medianExceeds reports whether the median of the non-NaN values is above
// the threshold.
func medianExceeds(values []float64, threshold float64) bool {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return false
	}
	sort.Float64s(valid)
	mid := len(valid) / 2
	median := valid[mid]
	if len(valid)%2 == 0 {
		median = (valid[mid-1] + valid[mid]) / 2
	}
	return median > threshold
}
