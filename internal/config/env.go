package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "CHARLIMIT_"

// envSetters maps variable names, without EnvPrefix, to the setting they
// override.
var envSetters = map[string]func(*Config, string) error{
	"MAX_CHARACTERS": func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sMAX_CHARACTERS: %v", ErrInvalid, EnvPrefix, err)
		}
		c.MaxCharacters = n
		return nil
	},
	"MEASURE":       func(c *Config, v string) error { c.Measure = v; return nil },
	"SEGMENTATION":  func(c *Config, v string) error { c.Segmentation = v; return nil },
	"STRLEN_SCRIPT": func(c *Config, v string) error { c.StrlenScript = v; return nil },
	"LOG_LEVEL":     func(c *Config, v string) error { c.Log.Level = v; return nil },
	"LOG_JSON": func(c *Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sLOG_JSON: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Log.JSON = b
		return nil
	},
}

// ApplyEnv overrides cfg with the CHARLIMIT_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for name, set := range envSetters {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(cfg, v); err != nil {
			return err
		}
	}
	return nil
}
