package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem abstracts file reads for testing.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// DefaultFS returns the operating system file system.
func DefaultFS() FileSystem { return osFS{} }

// Load builds a Config from the defaults, the file at path (if path is not
// empty) and the process environment, and validates it.
func Load(path string) (Config, error) {
	return LoadFS(DefaultFS(), path, os.LookupEnv)
}

// LoadFS is Load with an explicit file system and environment lookup.
func LoadFS(fsys FileSystem, path string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(fsys, path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if lookupEnv != nil {
		if err := ApplyEnv(&cfg, lookupEnv); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile decodes path over cfg. Keys absent from the file keep their
// current values.
func loadFile(fsys FileSystem, path string, cfg *Config) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return decodeTOML(path, data, cfg)
	case ".yaml", ".yml":
		return decodeYAML(path, data, cfg)
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalid, ext)
	}
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			pe.Message = sme.String()
		}
		return pe
	}
	return nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// A document without content decodes to io.EOF.
		if errors.Is(err, io.EOF) {
			return nil
		}
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			pe.Line, _ = strconv.Atoi(m[1])
		}
		return pe
	}
	return nil
}
