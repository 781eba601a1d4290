// Package csvio provides row-table I/O: reading and writing CSV tables,
// discovering candidate source files, and crash-safe atomic replacement of
// output artifacts.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ErrSourceNotFound indicates a referenced input file does not exist.
var ErrSourceNotFound = errors.New("csvio: source not found")

// Table is a raw row table: a header plus string records. It carries no
// typing; canonicalization is the series package's job.
type Table struct {
	Header  []string
	Records [][]string
}

// Column returns the index of the named column, if present.
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of data records.
func (t *Table) Len() int {
	return len(t.Records)
}

// Read parses CSV from r into a Table. An empty input yields an empty table.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}
	return &Table{Header: rows[0], Records: rows[1:]}, nil
}

// ReadFile loads a CSV table from disk.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write emits the table as CSV to w.
func Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return err
		}
	}
	for _, rec := range t.Records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAtomic writes file content produced by fn to path via a temporary
// file in the same directory followed by a rename, so a crash mid-write
// never leaves a truncated file at the destination. Parent directories are
// created as needed.
func WriteAtomic(path string, fn func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := fn(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteFile persists the table to path atomically.
func WriteFile(t *Table, path string) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return Write(w, t)
	})
}

// Discover lists candidate CSV files. A directory yields its sorted *.csv
// entries; anything else is treated as a literal path or a glob pattern.
func Discover(pathOrGlob string) ([]string, error) {
	info, err := os.Stat(pathOrGlob)
	if err == nil && info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(pathOrGlob, "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pathOrGlob, err)
		}
		sort.Strings(matches)
		return matches, nil
	}
	if err == nil {
		return []string{pathOrGlob}, nil
	}

	matches, globErr := filepath.Glob(pathOrGlob)
	if globErr != nil {
		return nil, fmt.Errorf("glob %s: %w", pathOrGlob, globErr)
	}
	sort.Strings(matches)
	return matches, nil
}
