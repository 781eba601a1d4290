package series

import (
	"errors"
	"math"
	"testing"

	"tvparse/internal/csvio"
)

func table(header []string, records ...[]string) *csvio.Table {
	return &csvio.Table{Header: header, Records: records}
}

func TestNormalizeCanonicalizesAliases(t *testing.T) {
	raw := table(
		[]string{"Timestamp", "O", "H", "L", "C", "Vol"},
		[]string{"1000", "1", "2", "0.5", "1.5", "10"},
	)

	s, err := Normalize(raw, true)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(s) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(s))
	}
	b := s[0]
	if b.Time != 1000 || b.Open != 1 || b.High != 2 || b.Low != 0.5 || b.Close != 1.5 || b.Volume != 10 {
		t.Fatalf("unexpected bar: %+v", b)
	}
}

func TestNormalizeCoalescesDuplicateColumns(t *testing.T) {
	// Two spellings of the same logical column; first non-empty value wins.
	raw := table(
		[]string{"time", "Volume", "open", "high", "low", "close", "VOL"},
		[]string{"1000", "", "1", "1", "1", "1", "7"},
		[]string{"1060", "3", "1", "1", "1", "1", "9"},
	)

	s, err := Normalize(raw, true)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(s) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(s))
	}
	if s[0].Volume != 7 {
		t.Fatalf("empty first variant should fall through to 7, got %v", s[0].Volume)
	}
	if s[1].Volume != 3 {
		t.Fatalf("first non-empty variant should win, got %v", s[1].Volume)
	}
}

func TestNormalizeMillisecondTimestamps(t *testing.T) {
	raw := table(
		[]string{"time", "open", "high", "low", "close", "volume"},
		[]string{"1728838800000", "1", "1", "1", "1", "1"},
		[]string{"1728838860000", "1", "1", "1", "1", "1"},
	)

	s, err := Normalize(raw, true)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if s[0].Time != 1728838800 || s[1].Time != 1728838860 {
		t.Fatalf("milliseconds should scale to seconds, got %d, %d", s[0].Time, s[1].Time)
	}
}

func TestNormalizeDropIncomplete(t *testing.T) {
	raw := table(
		[]string{"time", "open", "high", "low", "close", "volume"},
		[]string{"1000", "1", "1", "1", "1", "1"},
		[]string{"1060", "not-a-number", "1", "1", "1", "1"},
		[]string{"", "1", "1", "1", "1", "1"},
	)

	dropped, err := Normalize(raw, true)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(dropped) != 1 {
		t.Fatalf("incomplete rows should be dropped, got %d bars", len(dropped))
	}

	kept, err := Normalize(raw, false)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(kept) != 3 {
		t.Fatalf("incomplete rows should be retained, got %d bars", len(kept))
	}
	if !math.IsNaN(kept[1].Open) {
		t.Fatalf("non-numeric open should be missing, got %v", kept[1].Open)
	}
	if kept[2].HasTime {
		t.Fatal("empty time cell should leave HasTime false")
	}
	if kept[0].Complete() != true || kept[1].Complete() != false {
		t.Fatal("Complete() misclassifies bars")
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	raw := table(
		[]string{"time", "open", "close"},
		[]string{"1000", "1", "1"},
	)
	_, err := Normalize(raw, true)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func TestNormalizeEmptyTable(t *testing.T) {
	s, err := Normalize(&csvio.Table{}, true)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(s) != 0 {
		t.Fatalf("expected empty series, got %d bars", len(s))
	}
}
