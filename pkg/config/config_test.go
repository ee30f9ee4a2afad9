package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	settings := cfg.DesignSettings()
	if err := settings.Validate(); err != nil {
		t.Errorf("Default design settings should validate: %v", err)
	}
	ranges := cfg.ManualRanges()
	if err := ranges.Validate(); err != nil {
		t.Errorf("Default manual ranges should validate: %v", err)
	}
}

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Design.DLatitudeDeg != 5 {
		t.Errorf("DLatitudeDeg = %v, want default 5", cfg.Design.DLatitudeDeg)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := DefaultConfig()
	cfg.Design.DLatitudeDeg = 0
	cfg.Design.DLatitudeKm = 300
	cfg.Design.CrossDateLine = true
	cfg.Params.StrictDuplicates = true

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Design.DLatitudeKm != 300 || !loaded.Design.CrossDateLine {
		t.Errorf("Design section not preserved: %+v", loaded.Design)
	}
	if !loaded.Params.StrictDuplicates {
		t.Error("Params section not preserved")
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("design: [not a map\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Malformed YAML should be rejected")
	}
}
