package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pcdogyu/tradesession/internal/market"
)

type Config struct {
	// Path of the SQLite database holding the session_defs table.
	DBPath string `yaml:"db_path"`

	// Tabular slice file: symbol,start_hour,start_minute,end_hour,end_minute.
	SlicesCSV string `yaml:"slices_csv"`

	// Database export file: symbol[,exchange],sessions-json.
	ExportCSV string `yaml:"export_csv"`

	// Symbol -> preset name ("stock", "bond", "commodity_night", ...).
	Presets map[string]string `yaml:"presets"`

	Reload struct {
		// Merge overlays each loaded source onto the previous ones instead
		// of replacing the registry.
		Merge *bool `yaml:"merge"`
	} `yaml:"reload"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := NormalizeAndValidate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Reload.Merge == nil {
		// Sources are meant to layer (presets first, then files, then db).
		v := true
		cfg.Reload.Merge = &v
	}
}

// NormalizeAndValidate applies defaults and checks invariants.
func NormalizeAndValidate(cfg *Config) error {
	applyDefaults(cfg)
	if cfg.DBPath == "" && cfg.SlicesCSV == "" && cfg.ExportCSV == "" && len(cfg.Presets) == 0 {
		return fmt.Errorf("at least one of db_path, slices_csv, export_csv or presets is required")
	}
	for sym, preset := range cfg.Presets {
		if _, err := market.PresetSlices(preset); err != nil {
			return fmt.Errorf("presets.%s: %w", sym, err)
		}
	}
	return nil
}
