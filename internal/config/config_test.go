package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"exprscript/internal/config"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exprscript.yaml")
	src := "gc:\n  ratio: 0.5\nrun:\n  budgetMs: 2000\nreport:\n  pretty: true\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GC.Ratio != 0.5 {
		t.Fatalf("got ratio %v", cfg.GC.Ratio)
	}
	if cfg.Run.Budget().Milliseconds() != 2000 {
		t.Fatalf("got budget %v", cfg.Run.Budget())
	}
	if !cfg.Report.Pretty {
		t.Fatal("expected pretty=true")
	}
}

func TestLoadFallsBackToDefaultGCRatio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exprscript.yaml")
	if err := os.WriteFile(path, []byte("run:\n  budgetMs: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GC.Ratio != config.Default().GC.Ratio {
		t.Fatalf("got ratio %v", cfg.GC.Ratio)
	}
	if cfg.Run.Budget() != 0 {
		t.Fatal("expected zero budget")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
