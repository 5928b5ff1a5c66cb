package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.Batch.Workers != 0 {
		t.Errorf("Expected 0 workers by default, got %d", cfg.Batch.Workers)
	}
	if cfg.Preview.Format != "jpg" {
		t.Errorf("Expected jpg preview format, got %s", cfg.Preview.Format)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Labels.SkipDifficult = true
	cfg.Batch.Workers = 3
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if !loaded.Labels.SkipDifficult || loaded.Batch.Workers != 3 {
		t.Errorf("Unexpected loaded config %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"batch":{"workers":2}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", cfg.Batch.Workers)
	}
	if cfg.Preview.Quality != 90 {
		t.Errorf("Expected default preview quality 90, got %d", cfg.Preview.Quality)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"negative workers", func(c *Config) { c.Batch.Workers = -1 }, "batch.workers"},
		{"bad format", func(c *Config) { c.Preview.Format = "bmp" }, "preview.format"},
		{"quality too low", func(c *Config) { c.Preview.Quality = 0 }, "preview.quality"},
		{"quality too high", func(c *Config) { c.Preview.Quality = 101 }, "preview.quality"},
		{"negative max size", func(c *Config) { c.Preview.MaxSize = -5 }, "preview.max_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected error mentioning %s, got %v", tt.field, err)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	if !strings.HasSuffix(GetConfigPath(), "config.json") {
		t.Errorf("Unexpected config path %s", GetConfigPath())
	}
}
