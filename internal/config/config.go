package config

import (
	"fmt"
	"strings"

	"github.com/dshills/charlimit/internal/logging"
	"github.com/dshills/charlimit/internal/measure"
	"github.com/dshills/charlimit/internal/segment"
)

// Config holds the limiter settings.
type Config struct {
	// MaxCharacters is the character budget. Zero marks everything.
	MaxCharacters int `toml:"max_characters" yaml:"max_characters"`

	// Measure names the built-in length measure (see measure.ByName).
	Measure string `toml:"measure" yaml:"measure"`

	// Segmentation names the cluster iterator used to place the boundary
	// (see segment.ByName).
	Segmentation string `toml:"segmentation" yaml:"segmentation"`

	// StrlenScript, when set, is a Lua file defining strlen(s). It takes
	// precedence over Measure.
	StrlenScript string `toml:"strlen_script" yaml:"strlen_script"`

	Log LogConfig `toml:"log" yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	JSON  bool   `toml:"json" yaml:"json"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Measure:      measure.NameUTF16,
		Segmentation: segment.NameGraphemes,
		Log: LogConfig{
			Level: logging.LevelInfo.String(),
		},
	}
}

// Validate reports the first unusable setting, wrapped in ErrInvalid.
func (c Config) Validate() error {
	if c.MaxCharacters < 0 {
		return fmt.Errorf("%w: max_characters must not be negative, got %d", ErrInvalid, c.MaxCharacters)
	}
	if c.StrlenScript == "" {
		if _, err := measure.ByName(c.Measure); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if _, err := segment.ByName(c.Segmentation); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// Segmenter returns the configured segmenter.
func (c Config) Segmenter() (segment.Segmenter, error) {
	return segment.ByName(c.Segmentation)
}

// Logging returns the logger configuration for c.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Log.Level)
	cfg.JSON = c.Log.JSON
	return cfg
}
