package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestToTimestampUTC(t *testing.T) {
	ts, err := ToTimestamp("10/13/24", "17:00", "UTC")
	if err != nil {
		t.Fatalf("ToTimestamp failed: %v", err)
	}
	want := time.Date(2024, time.October, 13, 17, 0, 0, 0, time.UTC).Unix()
	if ts != want {
		t.Fatalf("expected %d, got %d", want, ts)
	}
}

func TestToTimestampFourDigitYear(t *testing.T) {
	short, err := ToTimestamp("1/2/24", "09:30", "UTC")
	if err != nil {
		t.Fatalf("ToTimestamp failed: %v", err)
	}
	long, err := ToTimestamp("1/2/2024", "09:30", "UTC")
	if err != nil {
		t.Fatalf("ToTimestamp failed: %v", err)
	}
	if short != long {
		t.Fatalf("2-digit and 4-digit years should agree: %d vs %d", short, long)
	}
}

func TestToTimestampNamedZone(t *testing.T) {
	ts, err := ToTimestamp("10/13/24", "17:00", "America/Chicago")
	if err != nil {
		t.Fatalf("ToTimestamp failed: %v", err)
	}
	// Chicago is UTC-5 on that date (CDT).
	utc, err := ToTimestamp("10/13/24", "17:00", "UTC")
	if err != nil {
		t.Fatalf("ToTimestamp failed: %v", err)
	}
	if ts != utc+5*3600 {
		t.Fatalf("expected CDT offset of 5h, got %d", ts-utc)
	}
}

func TestToTimestampErrors(t *testing.T) {
	cases := []struct {
		name    string
		date    string
		clock   string
		tz      string
		wantErr error
	}{
		{"bad date", "2024-10-13", "17:00", "UTC", ErrInvalidTimeFormat},
		{"bad month", "13/40/24", "17:00", "UTC", ErrInvalidTimeFormat},
		{"february 30th", "2/30/24", "10:00", "UTC", ErrInvalidTimeFormat},
		{"april 31st", "4/31/24", "10:00", "UTC", ErrInvalidTimeFormat},
		{"bad clock", "10/13/24", "25:00", "UTC", ErrInvalidTimeFormat},
		{"clock missing colon", "10/13/24", "1700", "UTC", ErrInvalidTimeFormat},
		{"unknown zone", "10/13/24", "17:00", "Mars/Olympus", ErrUnknownTimezone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ToTimestamp(tc.date, tc.clock, tc.tz); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWindowStartEndSameDay(t *testing.T) {
	start, end, err := WindowStartEnd("10/13/24", "09:00", "16:30", "UTC")
	if err != nil {
		t.Fatalf("WindowStartEnd failed: %v", err)
	}
	if end-start != int64(7*3600+30*60) {
		t.Fatalf("same-day window should equal the clock difference, got %ds", end-start)
	}
}

func TestWindowStartEndCrossMidnight(t *testing.T) {
	start, end, err := WindowStartEnd("10/13/24", "17:00", "07:00", "UTC")
	if err != nil {
		t.Fatalf("WindowStartEnd failed: %v", err)
	}
	if end <= start {
		t.Fatalf("cross-midnight window must end after it starts: start=%d end=%d", start, end)
	}
	if end-start != 14*3600 {
		t.Fatalf("expected 14h span, got %ds", end-start)
	}
	wantEnd := time.Date(2024, time.October, 14, 7, 0, 0, 0, time.UTC).Unix()
	if end != wantEnd {
		t.Fatalf("end should fall on the next calendar date: got %d want %d", end, wantEnd)
	}
}

func TestWindowStartEndEqualClocksRollOver(t *testing.T) {
	start, end, err := WindowStartEnd("10/13/24", "17:00", "17:00", "UTC")
	if err != nil {
		t.Fatalf("WindowStartEnd failed: %v", err)
	}
	if end-start != 24*3600 {
		t.Fatalf("equal start/end should span a full day, got %ds", end-start)
	}
}

func TestWindowStartEndAcrossDSTFallBack(t *testing.T) {
	// US DST ends 11/3/24 at 02:00 local; the overnight window gains an hour.
	start, end, err := WindowStartEnd("11/2/24", "17:00", "07:00", "America/New_York")
	if err != nil {
		t.Fatalf("WindowStartEnd failed: %v", err)
	}
	if end-start != 15*3600 {
		t.Fatalf("fall-back night should span 15h, got %ds", end-start)
	}
}
