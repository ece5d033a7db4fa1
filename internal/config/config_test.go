package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db_path: data/sessions.db
presets:
  ru: commodity_night
  "600519": stock
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "data/sessions.db" {
		t.Fatalf("db_path = %q", cfg.DBPath)
	}
	if cfg.Reload.Merge == nil || !*cfg.Reload.Merge {
		t.Fatalf("merge should default to true")
	}
	if cfg.Presets["ru"] != "commodity_night" {
		t.Fatalf("presets misparsed: %+v", cfg.Presets)
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	var cfg Config
	if err := NormalizeAndValidate(&cfg); err == nil {
		t.Fatalf("config with no source should fail")
	}
}

func TestValidateRejectsUnknownPreset(t *testing.T) {
	cfg := Config{Presets: map[string]string{"ru": "nighttime"}}
	if err := NormalizeAndValidate(&cfg); err == nil {
		t.Fatalf("unknown preset should fail validation")
	}
}
