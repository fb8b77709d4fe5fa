package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/pixelator/pkg/shapes"
)

// Config holds the application configuration
type Config struct {
	Pixelation PixelationConfig `json:"pixelation"`
	Display    DisplayConfig    `json:"display"`
	Sequence   SequenceConfig   `json:"sequence"`
	Output     OutputConfig     `json:"output"`
}

// PixelationConfig holds the default region parameters
type PixelationConfig struct {
	Tilesize   int    `json:"tilesize"`
	Shape      string `json:"shape"`
	CacheLimit int    `json:"cache_limit"`
}

// DisplayConfig holds the on-screen canvas bounds
type DisplayConfig struct {
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`
}

// SequenceConfig holds configuration for frame-sequence processing
type SequenceConfig struct {
	Pattern      string `json:"pattern"`
	MaxFrames    int    `json:"max_frames"`
	SkipExisting bool   `json:"skip_existing"`
}

// OutputConfig holds configuration for saved images
type OutputConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Pixelation: PixelationConfig{
			Tilesize:   10,
			Shape:      string(shapes.Rectangle),
			CacheLimit: shapes.DefaultCacheLimit,
		},
		Display: DisplayConfig{
			CanvasWidth:  720,
			CanvasHeight: 405,
		},
		Sequence: SequenceConfig{
			Pattern:      "frame%04d.jpg",
			MaxFrames:    9999,
			SkipExisting: false,
		},
		Output: OutputConfig{
			Format:   "jpg",
			Quality:  95,
			Lossless: false,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
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
	if c.Pixelation.Tilesize < 1 {
		return fmt.Errorf("pixelation.tilesize must be at least 1")
	}

	if _, err := shapes.ParseKind(c.Pixelation.Shape); err != nil {
		return fmt.Errorf("pixelation.shape: %w", err)
	}

	if c.Pixelation.CacheLimit < 1 {
		return fmt.Errorf("pixelation.cache_limit must be positive")
	}

	if c.Display.CanvasWidth < 0 || c.Display.CanvasHeight < 0 {
		return fmt.Errorf("display canvas bounds must not be negative")
	}

	if c.Sequence.MaxFrames < 1 {
		return fmt.Errorf("sequence.max_frames must be positive")
	}

	if !strings.Contains(c.Sequence.Pattern, "%") {
		return fmt.Errorf("sequence.pattern must contain a frame number verb")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch strings.ToLower(c.Output.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be one of jpg, png, webp")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "pixelator", "config.json")
}
