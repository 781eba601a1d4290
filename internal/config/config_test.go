package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}
	if cfg.Merge.DedupeStrategy != "last" || cfg.Merge.SortOrder != "asc" {
		t.Fatalf("unexpected merge defaults: %+v", cfg.Merge)
	}
	if !cfg.Merge.DropIncomplete {
		t.Fatal("drop_incomplete should default to true")
	}
	if cfg.Extract.Timezone != "UTC" || cfg.Extract.TimestampColumn != "ts" {
		t.Fatalf("unexpected extract defaults: %+v", cfg.Extract)
	}
	if cfg.Export.MaxDataPoints != 100000 {
		t.Fatalf("unexpected export defaults: %+v", cfg.Export)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "merge:\n  dedupe_strategy: max_volume\n  sort_order: desc\nextract:\n  timezone: America/Chicago\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Merge.DedupeStrategy != "max_volume" || cfg.Merge.SortOrder != "desc" {
		t.Fatalf("file values not applied: %+v", cfg.Merge)
	}
	if cfg.Extract.Timezone != "America/Chicago" {
		t.Fatalf("file values not applied: %+v", cfg.Extract)
	}
}

func TestLoadRejectsBadStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("merge:\n  dedupe_strategy: median\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("invalid dedupe strategy should fail validation")
	}
}

func TestResolveMaxPoints(t *testing.T) {
	cfg := &Config{Export: ExportConfig{MaxDataPoints: 500}}
	if got := cfg.ResolveMaxPoints(0); got != 500 {
		t.Fatalf("expected config default, got %d", got)
	}
	if got := cfg.ResolveMaxPoints(9); got != 9 {
		t.Fatalf("expected override, got %d", got)
	}
}
