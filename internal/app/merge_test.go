package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"tvparse/internal/config"
	"tvparse/internal/csvio"
)

func mergeFixture(t *testing.T) (in, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, "in.csv")
	content := "time,open,high,low,close,volume\n1000,1,1,1,1,1\n1060,,1,1,1,1\n"
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	out = filepath.Join(dir, "out.csv")
	return
}

func mergeTestConfig(dropIncomplete bool) *config.Config {
	return &config.Config{
		Merge: config.MergeConfig{
			DedupeStrategy: "last",
			SortOrder:      "asc",
			DropIncomplete: dropIncomplete,
		},
	}
}

func TestMergeDropIncompleteConfigDefault(t *testing.T) {
	in, out := mergeFixture(t)

	a := NewApp(mergeTestConfig(false), zerolog.Nop())
	err := a.Merge(context.Background(), MergeOptions{
		Inputs: []string{in},
		Output: out,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	table, err := csvio.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("drop_incomplete=false in config should keep the incomplete row, got %d rows", table.Len())
	}
}

func TestMergeDropIncompleteOverride(t *testing.T) {
	in, out := mergeFixture(t)

	drop := true
	a := NewApp(mergeTestConfig(false), zerolog.Nop())
	err := a.Merge(context.Background(), MergeOptions{
		Inputs:         []string{in},
		Output:         out,
		DropIncomplete: &drop,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	table, err := csvio.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("explicit override should drop the incomplete row, got %d rows", table.Len())
	}
}
