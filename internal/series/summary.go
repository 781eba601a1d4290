package series

import (
	"github.com/shopspring/decimal"
)

// Summary describes a series at a glance.
type Summary struct {
	Rows        int
	StartTime   *int64
	EndTime     *int64
	Duplicates  int
	TotalVolume decimal.Decimal
}

// Summarize computes row count, timestamp range, residual duplicate count,
// and total traded volume. Volume is accumulated as decimal so the total
// stays exact over millions of bars.
func Summarize(s Series) Summary {
	out := Summary{Rows: len(s)}
	if len(s) == 0 {
		return out
	}

	seen := make(map[int64]bool, len(s))
	total := decimal.Zero
	for _, b := range s {
		if b.HasTime {
			if seen[b.Time] {
				out.Duplicates++
			}
			seen[b.Time] = true

			if out.StartTime == nil || b.Time < *out.StartTime {
				t := b.Time
				out.StartTime = &t
			}
			if out.EndTime == nil || b.Time > *out.EndTime {
				t := b.Time
				out.EndTime = &t
			}
		}
		if b.Volume == b.Volume { // skip NaN
			total = total.Add(decimal.NewFromFloat(b.Volume))
		}
	}
	out.TotalVolume = total
	return out
}
