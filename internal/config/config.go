package config

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// EnvPrefix is prepended to every environment override
const EnvPrefix = "FILMSTRIP_"

// Config holds all application configuration
type Config struct {
	// Core settings
	WorkDir string `yaml:"work_dir" env:"WORK_DIR"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg" envPrefix:"FFMPEG_"`

	// Filmstrip layout and extraction
	Filmstrip FilmstripConfig `yaml:"filmstrip"`

	// Metrics endpoint
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path" env:"BINARY_PATH"`
	ProbePath   string `yaml:"ffprobe_path" env:"FFPROBE_PATH"`
	Threads     int    `yaml:"threads" env:"THREADS"`
	FrameHeight int    `yaml:"frame_height" env:"FRAME_HEIGHT"`
}

type FilmstripConfig struct {
	SlotCount   int     `yaml:"slot_count" env:"SLOT_COUNT"`
	SlotHeight  float32 `yaml:"slot_height" env:"SLOT_HEIGHT"`
	Margin      float32 `yaml:"margin" env:"MARGIN"`
	Gap         float32 `yaml:"gap" env:"GAP"`
	MaskColor   string  `yaml:"mask_color" env:"MASK_COLOR"`
	WindowColor string  `yaml:"window_color" env:"WINDOW_COLOR"`
	Workers     int     `yaml:"workers" env:"WORKERS"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// Load reads configuration from file, applies environment overrides,
// and returns defaults for anything left unset
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects layouts the filmstrip cannot draw
func (c *Config) Validate() error {
	f := c.Filmstrip
	if f.SlotCount < 1 {
		return fmt.Errorf("filmstrip.slot_count must be at least 1, got %d", f.SlotCount)
	}
	if f.SlotHeight <= 0 {
		return fmt.Errorf("filmstrip.slot_height must be positive, got %v", f.SlotHeight)
	}
	if f.Margin < 0 || f.Gap < 0 {
		return fmt.Errorf("filmstrip.margin and filmstrip.gap must not be negative")
	}
	if _, err := ParseColor(f.MaskColor); err != nil {
		return fmt.Errorf("filmstrip.mask_color: %w", err)
	}
	if _, err := ParseColor(f.WindowColor); err != nil {
		return fmt.Errorf("filmstrip.window_color: %w", err)
	}
	if f.Workers < 1 {
		return fmt.Errorf("filmstrip.workers must be at least 1, got %d", f.Workers)
	}
	if c.FFmpeg.FrameHeight < 0 {
		return fmt.Errorf("ffmpeg.frame_height must not be negative")
	}
	return nil
}

// Default returns the built-in configuration
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		WorkDir: "./work",
		FFmpeg: FFmpegConfig{
			BinaryPath:  "ffmpeg",
			ProbePath:   "ffprobe",
			Threads:     0,
			FrameHeight: 120,
		},
		Filmstrip: FilmstripConfig{
			SlotCount:   7,
			SlotHeight:  60,
			Margin:      20,
			Gap:         1,
			MaskColor:   "#FFFFFF77",
			WindowColor: "#FFFFFFFF",
			Workers:     2,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./filmstrip.yaml",
		"./filmstrip.yml",
		filepath.Join(os.Getenv("HOME"), ".filmstrip", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ParseColor parses #RRGGBB or #RRGGBBAA into a non-premultiplied colour
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 6 {
		hex += "FF"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
