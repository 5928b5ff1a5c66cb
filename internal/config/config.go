package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Parser   ParserConfig   `json:"parser"`
	Labels   LabelsConfig   `json:"labels"`
	Batch    BatchConfig    `json:"batch"`
	Analysis AnalysisConfig `json:"analysis"`
	Preview  PreviewConfig  `json:"preview"`
}

// ParserConfig holds configuration for annotation parsing
type ParserConfig struct {
	RequireDepth bool `json:"require_depth"`
}

// LabelsConfig holds configuration for YOLO label generation
type LabelsConfig struct {
	SkipDifficult bool `json:"skip_difficult"`
	// ImageDir is used to look up image sizes missing from annotations
	ImageDir string `json:"image_dir"`
}

// BatchConfig holds configuration for parallel batch operations
type BatchConfig struct {
	// Workers is the pool size; 0 uses every available CPU
	Workers int `json:"workers"`
}

// AnalysisConfig holds configuration for distribution analysis
type AnalysisConfig struct {
	Verbose bool `json:"verbose"`
}

// PreviewConfig holds configuration for annotation overlay previews
type PreviewConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	MaxSize  int    `json:"max_size"`
	Suffix   string `json:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			RequireDepth: false,
		},
		Labels: LabelsConfig{
			SkipDifficult: false,
			ImageDir:      "",
		},
		Batch: BatchConfig{
			Workers: 0,
		},
		Analysis: AnalysisConfig{
			Verbose: false,
		},
		Preview: PreviewConfig{
			Format:   "jpg",
			Quality:  90,
			Lossless: false,
			MaxSize:  0,
			Suffix:   "_preview",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields absent from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative")
	}

	switch strings.ToLower(c.Preview.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("preview.format must be one of jpg, png, webp")
	}

	if c.Preview.Quality < 1 || c.Preview.Quality > 100 {
		return fmt.Errorf("preview.quality must be between 1 and 100")
	}

	if c.Preview.MaxSize < 0 {
		return fmt.Errorf("preview.max_size must not be negative")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "odutil", "config.json")
}
