// Package jsonconv converts finished row tables into line-delimited or
// array-form JSON, with optional camelCase field renaming and a generated
// TypeScript interface describing the row shape.
package jsonconv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tvparse/internal/csvio"
)

// Options configure a conversion.
type Options struct {
	CamelCase     bool
	TimeColumn    string // coerced to integer seconds; default "time"
	GenerateDTS   bool   // emit a sibling .d.ts interface file
	InterfaceName string // default "Row"
	ChunkSize     int    // NDJSON streaming chunk; default 100000
}

func (o Options) withDefaults() Options {
	if o.TimeColumn == "" {
		o.TimeColumn = "time"
	}
	if o.InterfaceName == "" {
		o.InterfaceName = "Row"
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 100_000
	}
	return o
}

// millisThreshold mirrors the series package heuristic: a median timestamp
// above it is milliseconds since epoch.
const millisThreshold = 1e12

// ToNDJSON streams the input CSV to out as one JSON object per line,
// processing bounded chunks so arbitrarily large inputs stay memory-safe.
func ToNDJSON(inPath, outPath string, opts Options) error {
	opts = opts.withDefaults()

	f, err := os.Open(inPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", csvio.ErrSourceNotFound, inPath)
		}
		return fmt.Errorf("open %s: %w", inPath, err)
	}
	defer f.Close()

	cr := csv.NewReader(bufio.NewReader(f))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return csvio.WriteAtomic(outPath, func(io.Writer) error { return nil })
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	header = renameColumns(header, opts.CamelCase)

	shape := newShape(header)
	writeErr := csvio.WriteAtomic(outPath, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		chunk := make([][]string, 0, opts.ChunkSize)

		flush := func() error {
			if len(chunk) == 0 {
				return nil
			}
			types := inferColumns(header, chunk, opts.TimeColumn)
			shape.observe(types)
			for _, rec := range chunk {
				line, err := encodeRecord(header, rec, types)
				if err != nil {
					return err
				}
				if _, err := bw.Write(append(line, '\n')); err != nil {
					return err
				}
			}
			chunk = chunk[:0]
			return nil
		}

		for {
			rec, err := cr.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}
			chunk = append(chunk, rec)
			if len(chunk) >= opts.ChunkSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := flush(); err != nil {
			return err
		}
		return bw.Flush()
	})
	if writeErr != nil {
		return writeErr
	}

	if opts.GenerateDTS {
		return writeDTS(outPath, opts.InterfaceName, header, shape)
	}
	return nil
}

// ToJSONArray converts the input CSV to a single JSON array. Whole-file;
// not suitable for very large inputs.
func ToJSONArray(inPath, outPath string, opts Options) error {
	opts = opts.withDefaults()

	t, err := csvio.ReadFile(inPath)
	if err != nil {
		return err
	}
	header := renameColumns(t.Header, opts.CamelCase)
	types := inferColumns(header, t.Records, opts.TimeColumn)

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range t.Records {
		if i > 0 {
			buf.WriteByte(',')
		}
		line, err := encodeRecord(header, rec, types)
		if err != nil {
			return err
		}
		buf.Write(line)
	}
	buf.WriteByte(']')

	if err := csvio.WriteAtomic(outPath, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}); err != nil {
		return err
	}

	if opts.GenerateDTS {
		shape := newShape(header)
		shape.observe(types)
		return writeDTS(outPath, opts.InterfaceName, header, shape)
	}
	return nil
}

var nonWord = regexp.MustCompile(`[^\w\s]`)
var wordSplit = regexp.MustCompile(`[_\s]+`)

// toCamel converts a snake or space separated name to camelCase.
func toCamel(s string) string {
	s = strings.TrimSpace(nonWord.ReplaceAllString(s, ""))
	if s == "" {
		return s
	}
	parts := wordSplit.Split(s, -1)
	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0]))
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}

func renameColumns(header []string, camel bool) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if camel {
			out[i] = toCamel(h)
		} else {
			out[i] = h
		}
	}
	return out
}

// colType describes one column within a chunk.
type colType struct {
	kind      string // "number", "boolean", "string"
	nullable  bool
	timeScale bool // divide by 1000 when emitting (ms -> s)
	isTime    bool
}

// inferColumns types each column from the chunk's values: number when every
// non-empty cell parses numerically, boolean when every non-empty cell is
// true/false, string otherwise. The time column additionally gets the ms
// heuristic applied.
func inferColumns(header []string, records [][]string, timeColumn string) []colType {
	types := make([]colType, len(header))
	for c := range header {
		t := colType{kind: "number", isTime: header[c] == timeColumn || strings.EqualFold(header[c], timeColumn)}
		allBool := true
		seen := false
		var timeVals []float64
		for _, rec := range records {
			if c >= len(rec) || strings.TrimSpace(rec[c]) == "" {
				t.nullable = true
				continue
			}
			cell := strings.TrimSpace(rec[c])
			seen = true
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				allBool = false
				if t.isTime {
					timeVals = append(timeVals, v)
				}
				continue
			}
			if cell == "true" || cell == "false" {
				if t.kind == "number" {
					t.kind = "boolean"
				}
				continue
			}
			t.kind = "string"
			allBool = false
		}
		if !seen {
			t.kind = "string"
			t.nullable = true
		} else if t.kind == "boolean" && !allBool {
			t.kind = "string"
		}
		if t.isTime && t.kind == "number" && medianOver(timeVals, millisThreshold) {
			t.timeScale = true
		}
		types[c] = t
	}
	return types
}

func medianOver(vals []float64, threshold float64) bool {
	if len(vals) == 0 {
		return false
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return median > threshold
}

// encodeRecord renders one record as a JSON object preserving column order.
func encodeRecord(header []string, rec []string, types []colType) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for c, name := range header {
		if c > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var cell string
		if c < len(rec) {
			cell = strings.TrimSpace(rec[c])
		}
		buf.WriteString(encodeCell(cell, types[c]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeCell(cell string, t colType) string {
	if cell == "" {
		return "null"
	}
	switch t.kind {
	case "number":
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return "null"
		}
		if t.isTime {
			iv := int64(v)
			if t.timeScale {
				iv /= 1000
			}
			return strconv.FormatInt(iv, 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case "boolean":
		if cell == "true" || cell == "false" {
			return cell
		}
		return "null"
	default:
		b, _ := json.Marshal(cell)
		return string(b)
	}
}

// shape accumulates column typing across chunks for interface generation.
type shape struct {
	kinds    []string
	nullable []bool
}

func newShape(header []string) *shape {
	return &shape{kinds: make([]string, len(header)), nullable: make([]bool, len(header))}
}

func (s *shape) observe(types []colType) {
	for i, t := range types {
		switch {
		case s.kinds[i] == "":
			s.kinds[i] = t.kind
		case s.kinds[i] != t.kind:
			s.kinds[i] = "string"
		}
		if t.nullable {
			s.nullable[i] = true
		}
	}
}

var tsIdent = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// writeDTS emits a sibling .d.ts file describing the row shape.
func writeDTS(outPath, name string, header []string, s *shape) error {
	var b strings.Builder
	fmt.Fprintf(&b, "export interface %s {\n", name)
	for i, col := range header {
		kind := s.kinds[i]
		if kind == "" {
			kind = "string"
		}
		typ := kind
		if s.nullable[i] {
			typ += " | null"
		}
		prop := col
		if !tsIdent.MatchString(col) {
			prop = fmt.Sprintf("['%s']", col)
		}
		fmt.Fprintf(&b, "  %s: %s;\n", prop, typ)
	}
	b.WriteString("}")

	return csvio.WriteAtomic(outPath+".d.ts", func(w io.Writer) error {
		_, err := io.WriteString(w, b.String())
		return err
	})
}
