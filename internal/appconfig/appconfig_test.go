// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/evaldash/internal/evaluation"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoad verifies that a valid file loads and that invalid JSON, unknown
// shapes, and missing files are rejected.
func TestLoad(t *testing.T) {
	dir := t.TempDir()

	valid := writeConfig(t, dir, "valid.json", `{
        "dataFile": "data/results.json",
        "port": 9000,
        "kinds": {"groundedness": "grounded", "scope": "status"}
    }`)
	cfg, err := Load(valid)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.DataFilePath() != "data/results.json" {
		t.Fatalf("unexpected data file %q", cfg.DataFilePath())
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if cfg.ConfigPath != valid {
		t.Fatalf("expected ConfigPath %q, got %q", valid, cfg.ConfigPath)
	}
	schema, err := cfg.Schema()
	if err != nil {
		t.Fatalf("Schema() error: %v", err)
	}
	if shape, ok := schema.Declared("scope"); !ok || shape != evaluation.ShapeStatus {
		t.Fatalf("expected scope declared as status, got %v (%v)", shape, ok)
	}

	invalid := writeConfig(t, dir, "invalid.json", `{ "port": `)
	if _, err := Load(invalid); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	badShape := writeConfig(t, dir, "bad_shape.json", `{ "kinds": {"x": "triangle"} }`)
	if _, err := Load(badShape); err == nil || !strings.Contains(err.Error(), "kinds.x") {
		t.Fatalf("Load() with unknown shape should name the kind, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "nonexistent.json")); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	if cfg.DataFilePath() != DefaultDataFile {
		t.Fatalf("expected default data file, got %q", cfg.DataFilePath())
	}
	if cfg.Addr() != "127.0.0.1:8501" {
		t.Fatalf("expected default addr, got %q", cfg.Addr())
	}
	if cfg.LogFilePath() != "evaldash.log" {
		t.Fatalf("expected default log file, got %q", cfg.LogFilePath())
	}
	if cfg.TitleLabelWidth() != 50 {
		t.Fatalf("expected title width 50, got %d", cfg.TitleLabelWidth())
	}
	if cfg.MaxUploadBytes() != 32<<20 {
		t.Fatalf("expected 32 MiB upload limit, got %d", cfg.MaxUploadBytes())
	}
}

func TestLoadLegacyFallback(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, legacyConfigPath, `{ "dataFile": "legacy.json" }`)

	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DataFilePath() != "legacy.json" {
		t.Fatalf("expected legacy data file, got %q", cfg.DataFilePath())
	}
	if cfg.ConfigPath != legacyConfigPath {
		t.Fatalf("expected legacy config path, got %q", cfg.ConfigPath)
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", &Config{Kinds: map[string]string{"b": "fields", "a": "grounded"}})
	out := buf.String()
	if !strings.Contains(out, "No config file loaded") {
		t.Fatalf("expected defaults notice, got: %s", out)
	}
	a, b := strings.Index(out, "    a "), strings.Index(out, "    b ")
	if a < 0 || b < 0 || a > b {
		t.Fatalf("expected declared kinds sorted, got: %s", out)
	}
	if !strings.Contains(out, "merged_results.json") {
		t.Fatalf("expected default data file, got: %s", out)
	}
}
