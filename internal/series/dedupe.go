package series

import "sort"

// Deduplicate collapses bars sharing a timestamp down to one survivor per
// the strategy. Grouping is by exact timestamp equality only. Survivors
// keep their input positions; bars without a timestamp pass through
// untouched.
func Deduplicate(s Series, strategy Strategy) (Series, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return s, nil
	}

	// survivor index per timestamp
	chosen := make(map[int64]int, len(s))
	for i, b := range s {
		if !b.HasTime {
			continue
		}
		prev, seen := chosen[b.Time]
		if !seen {
			chosen[b.Time] = i
			continue
		}
		switch strategy {
		case StrategyLast:
			chosen[b.Time] = i
		case StrategyFirst:
			// keep prev
		case StrategyMaxVolume:
			// strict greater-than keeps the earliest row on ties
			if greaterVolume(s[i].Volume, s[prev].Volume) {
				chosen[b.Time] = i
			}
		}
	}

	keep := make([]int, 0, len(chosen))
	for i, b := range s {
		if !b.HasTime {
			keep = append(keep, i)
			continue
		}
		if chosen[b.Time] == i {
			keep = append(keep, i)
		}
	}
	sort.Ints(keep)

	out := make(Series, 0, len(keep))
	for _, i := range keep {
		out = append(out, s[i])
	}
	return out, nil
}

// greaterVolume treats NaN as smaller than any concrete volume.
func greaterVolume(a, b float64) bool {
	if a != a { // NaN
		return false
	}
	if b != b {
		return true
	}
	return a > b
}
