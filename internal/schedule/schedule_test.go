package schedule

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLinesCrossMidnight(t *testing.T) {
	lines := []string{
		"date,start,entry,exit,end",
		"10/13/24,17:00,18:30,06:45,07:00",
	}

	windows, err := ParseLines(lines, "UTC")
	if err != nil {
		t.Fatalf("ParseLines failed: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}

	w := windows[0]
	if w.EndTS-w.StartTS != 14*3600 {
		t.Fatalf("expected a 14h overnight span, got %ds", w.EndTS-w.StartTS)
	}
	wantEnd := time.Date(2024, time.October, 14, 7, 0, 0, 0, time.UTC).Unix()
	if w.EndTS != wantEnd {
		t.Fatalf("window should end on 10/14/24, got %d want %d", w.EndTS, wantEnd)
	}
	if w.Label != "2024-10-13_18-30__06-45" {
		t.Fatalf("unexpected label %q", w.Label)
	}
}

func TestParseLinesSkipsHeaderAndBlanks(t *testing.T) {
	lines := []string{
		"",
		"Date, Start, Entry, Exit, End",
		"",
		"10/13/24,09:00,09:30,15:30,16:00",
	}
	windows, err := ParseLines(lines, "UTC")
	if err != nil {
		t.Fatalf("ParseLines failed: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
}

func TestParseLinesNoHeader(t *testing.T) {
	windows, err := ParseLines([]string{"10/13/24,09:00,09:30,15:30,16:00"}, "UTC")
	if err != nil {
		t.Fatalf("ParseLines failed: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("headerless input should parse, got %d windows", len(windows))
	}
}

func TestParseLinesMalformed(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"too few fields", "10/13/24,17:00,07:00"},
		{"bad date", "2024-10-13,17:00,18:30,06:45,07:00"},
		{"bad clock", "10/13/24,17:61,18:30,06:45,07:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines := []string{"date,start,entry,exit,end", tc.line}
			_, err := ParseLines(lines, "UTC")
			if !errors.Is(err, ErrMalformedLine) {
				t.Fatalf("expected ErrMalformedLine, got %v", err)
			}
		})
	}
}

func TestParseLinesMalformedReportsLineNumber(t *testing.T) {
	lines := []string{
		"date,start,entry,exit,end",
		"10/13/24,17:00,18:30,06:45,07:00",
		"garbage",
	}
	_, err := ParseLines(lines, "UTC")
	if err == nil {
		t.Fatal("expected parse failure")
	}
	if got := err.Error(); !strings.Contains(got, "3") {
		t.Fatalf("error should name the offending line number, got %q", got)
	}
}

func TestParseLinesDuplicateLabel(t *testing.T) {
	lines := []string{
		"date,start,entry,exit,end",
		"10/13/24,17:00,18:30,06:45,07:00",
		"10/13/24,16:00,18:30,06:45,08:00",
	}
	_, err := ParseLines(lines, "UTC")
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestParseLinesUnknownTimezone(t *testing.T) {
	lines := []string{"10/13/24,17:00,18:30,06:45,07:00"}
	if _, err := ParseLines(lines, "Mars/Olympus"); err == nil {
		t.Fatal("unknown timezone should fail the parse")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slrun.txt")
	content := "date,start,entry,exit,end\n10/13/24,17:00,18:30,06:45,07:00\n10/14/24,17:00,18:30,06:45,07:00\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed schedule: %v", err)
	}

	windows, err := ParseFile(path, "UTC")
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].StartTS >= windows[1].StartTS {
		t.Fatal("windows should preserve schedule order")
	}
}
