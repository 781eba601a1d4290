package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeFormat indicates a malformed date or clock string.
	ErrInvalidTimeFormat = errors.New("timeutil: invalid time format")
	// ErrUnknownTimezone indicates an unrecognized zone name.
	ErrUnknownTimezone = errors.New("timeutil: unknown timezone")
)

// parseDate parses "M/D/YY" or "M/D/YYYY" into (year, month, day).
// Two-digit years are interpreted as 2000+yy.
func parseDate(dateStr string) (int, time.Month, int, error) {
	parts := strings.Split(strings.TrimSpace(dateStr), "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: date must be MM/DD/YY or MM/DD/YYYY, got %q", ErrInvalidTimeFormat, dateStr)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: bad month in %q", ErrInvalidTimeFormat, dateStr)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: bad day in %q", ErrInvalidTimeFormat, dateStr)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: bad year in %q", ErrInvalidTimeFormat, dateStr)
	}
	if year < 100 {
		year += 2000
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("%w: date out of range: %q", ErrInvalidTimeFormat, dateStr)
	}

	// time.Date normalizes impossible dates like 2/30 to the following
	// month instead of failing, which would silently shift the window.
	if t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC); t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return 0, 0, 0, fmt.Errorf("%w: no such date: %q", ErrInvalidTimeFormat, dateStr)
	}

	return year, time.Month(month), day, nil
}

// parseClock parses "HH:MM" or "H:MM" into (hour, minute).
func parseClock(timeStr string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time must be HH:MM, got %q", ErrInvalidTimeFormat, timeStr)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidTimeFormat, timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidTimeFormat, timeStr)
	}
	if hour < 0 || hour >= 24 || minute < 0 || minute >= 60 {
		return 0, 0, fmt.Errorf("%w: hour or minute out of range: %q", ErrInvalidTimeFormat, timeStr)
	}

	return hour, minute, nil
}

// loadZone resolves a timezone name. Empty string and "UTC" map to UTC.
func loadZone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, tz)
	}
	return loc, nil
}

// ToTimestamp converts a calendar date plus 24-hour clock time in the named
// zone into unix seconds, honoring the zone's offset on that date.
func ToTimestamp(dateStr, timeStr, tz string) (int64, error) {
	year, month, day, err := parseDate(dateStr)
	if err != nil {
		return 0, err
	}
	hour, minute, err := parseClock(timeStr)
	if err != nil {
		return 0, err
	}
	loc, err := loadZone(tz)
	if err != nil {
		return 0, err
	}

	return time.Date(year, month, day, hour, minute, 0, 0, loc).Unix(), nil
}

// WindowStartEnd computes the inclusive (start, end) timestamps of a window
// starting on dateStr at startTime. When the end clock time is earlier than
// or equal to the start, the end falls on the next calendar day in the same
// zone, so a 17:00 -> 07:00 window spans roughly fourteen hours. The date
// advance is calendar-aware rather than a flat 24h addition, so windows
// crossing a DST transition resolve correctly.
func WindowStartEnd(dateStr, startTime, endTime, tz string) (int64, int64, error) {
	start, err := ToTimestamp(dateStr, startTime, tz)
	if err != nil {
		return 0, 0, err
	}
	end, err := ToTimestamp(dateStr, endTime, tz)
	if err != nil {
		return 0, 0, err
	}

	if end <= start {
		year, month, day, err := parseDate(dateStr)
		if err != nil {
			return 0, 0, err
		}
		hour, minute, err := parseClock(endTime)
		if err != nil {
			return 0, 0, err
		}
		loc, err := loadZone(tz)
		if err != nil {
			return 0, 0, err
		}
		end = time.Date(year, month, day+1, hour, minute, 0, 0, loc).Unix()
	}

	return start, end, nil
}
