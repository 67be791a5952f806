package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// isolate points the config dir at a temp location and clears viper's
// global state between tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return filepath.Join(dir, "scribe")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Write.PacingMs != 30 {
		t.Errorf("pacing = %d, want 30", cfg.Write.PacingMs)
	}
	if cfg.Write.Strict {
		t.Error("strict should default to false")
	}
	if cfg.Preview.FreshMarkerMs != 1500 {
		t.Errorf("fresh marker = %d, want 1500", cfg.Preview.FreshMarkerMs)
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "write:\n  pacing_ms: 10\n  strict: true\ntheme:\n  primary: \"#ff0000\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Write.PacingMs != 10 || !cfg.Write.Strict {
		t.Errorf("write config = %+v", cfg.Write)
	}
	if cfg.Theme.Primary != "#ff0000" {
		t.Errorf("theme primary = %q", cfg.Theme.Primary)
	}
	// Values the file does not set keep their defaults.
	if cfg.Preview.FreshMarkerMs != 1500 {
		t.Errorf("fresh marker = %d, want 1500", cfg.Preview.FreshMarkerMs)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("SCRIBE_WRITE_PACING_MS", "75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Write.PacingMs != 75 {
		t.Errorf("pacing = %d, want 75", cfg.Write.PacingMs)
	}
}

func TestWriteDefault(t *testing.T) {
	isolate(t)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("empty config written")
	}

	// Refuses to clobber.
	if _, err := WriteDefault(); err == nil {
		t.Error("expected error for existing config")
	}
}
