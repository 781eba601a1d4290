// Package schedule parses run files, human-authored lists of calendar
// dates with session clock times, into absolute extraction windows.
package schedule

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"tvparse/internal/timeutil"
)

var (
	// ErrMalformedLine indicates a schedule line that could not be parsed.
	// A run file is authoritative human input; any bad line fails the
	// whole parse rather than silently producing a wrong window.
	ErrMalformedLine = errors.New("schedule: malformed line")
	// ErrDuplicateLabel indicates two lines that would produce the same
	// window label, and therefore collide on the output filename.
	ErrDuplicateLabel = errors.New("schedule: duplicate window label")
)

// Window is one named extraction request with inclusive absolute bounds.
// StartTS <= EndTS always holds, even when the clock times cross midnight.
type Window struct {
	Label   string
	Date    string
	Start   string
	End     string
	Entry   string
	Exit    string
	StartTS int64
	EndTS   int64
}

// ParseLines parses run-file lines of the shape
// "date,start,entry,exit,end". A leading header line mentioning "date" is
// skipped, as are blank lines. The entry/exit markers do not bound the
// window; they are carried into the label.
func ParseLines(lines []string, tz string) ([]Window, error) {
	out := make([]Window, 0, len(lines))
	labels := make(map[string]int)

	first := true
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if first {
			first = false
			if strings.Contains(strings.ToLower(line), "date") {
				continue
			}
		}

		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformedLine, lineNo, line)
		}
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		date, start, entry, exit, end := parts[0], parts[1], parts[2], parts[3], parts[4]

		startTS, endTS, err := timeutil.WindowStartEnd(date, start, end, tz)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrMalformedLine, lineNo, err)
		}

		w := Window{
			Date:    date,
			Start:   start,
			End:     end,
			Entry:   entry,
			Exit:    exit,
			StartTS: startTS,
			EndTS:   endTS,
		}
		w.Label, err = makeLabel(date, entry, exit)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrMalformedLine, lineNo, err)
		}

		if prev, ok := labels[w.Label]; ok {
			return nil, fmt.Errorf("%w %q: lines %d and %d", ErrDuplicateLabel, w.Label, prev, lineNo)
		}
		labels[w.Label] = lineNo

		out = append(out, w)
	}
	return out, nil
}

// ParseFile reads and parses a run file.
func ParseFile(path, tz string) ([]Window, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	return ParseLines(lines, tz)
}

// makeLabel derives the window label from the date and marker fields:
// "YYYY-MM-DD_<entry>__<exit>" with clock colons replaced for filesystem
// safety.
func makeLabel(date, entry, exit string) (string, error) {
	iso, err := isoDate(date)
	if err != nil {
		return "", err
	}
	clean := func(s string) string {
		return strings.ReplaceAll(s, ":", "-")
	}
	return fmt.Sprintf("%s_%s__%s", iso, clean(entry), clean(exit)), nil
}

// isoDate converts "M/D/YY" or "M/D/YYYY" to "YYYY-MM-DD".
func isoDate(date string) (string, error) {
	parts := strings.Split(strings.TrimSpace(date), "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("date must be MM/DD/YY or MM/DD/YYYY, got %q", date)
	}
	var m, d, y int
	if _, err := fmt.Sscanf(strings.Join(parts, " "), "%d %d %d", &m, &d, &y); err != nil {
		return "", fmt.Errorf("bad date %q", date)
	}
	if y < 100 {
		y += 2000
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}
