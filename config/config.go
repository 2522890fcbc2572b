// Package config provides configuration loading for bitmem tools.
//
// Configuration is loaded from a single file specified by:
//   - the --config flag passed to the command, or
//   - the BITVIEW_CONFIG environment variable
//
// Without either, Default is used. Files ending in .json or .jsonc are
// parsed as JSON with comments and trailing commas; anything else is YAML.
package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/codec"
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/kind"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "BITVIEW_CONFIG"

// Config is the configuration for bitview.
type Config struct {
	// Log configures diagnostic output.
	Log LogConfig `yaml:"log" json:"log"`

	// View configures how buffers are displayed.
	View ViewConfig `yaml:"view" json:"view"`

	// Codec configures frame encoding and decoding.
	Codec CodecConfig `yaml:"codec" json:"codec"`

	// Buffer configures buffer storage.
	Buffer BufferConfig `yaml:"buffer" json:"buffer"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: warn
	Level string `yaml:"level" json:"level"`

	// Format is "console" or "json".
	// Default: console
	Format string `yaml:"format" json:"format"`
}

// ViewConfig configures display defaults.
type ViewConfig struct {
	// Kind is the element kind used when --kind is not given.
	// Default: int8
	Kind string `yaml:"kind" json:"kind"`

	// Columns is the number of elements printed per line.
	// Default: 8
	Columns int `yaml:"columns" json:"columns"`
}

// CodecConfig configures the frame codec.
type CodecConfig struct {
	// Compression is none, lz4 or zstd.
	// Default: none
	Compression string `yaml:"compression" json:"compression"`

	// MaxBits rejects larger frames on decode.
	// Default: 8589934592 (1 GiB of storage)
	MaxBits uint64 `yaml:"max_bits" json:"max_bits"`
}

// BufferConfig configures buffer storage.
type BufferConfig struct {
	// Allocator is heap or mmap.
	// Default: heap
	Allocator string `yaml:"allocator" json:"allocator"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		View: ViewConfig{
			Kind:    "int8",
			Columns: 8,
		},
		Codec: CodecConfig{
			Compression: "none",
			MaxBits:     codec.DefaultMaxBits,
		},
		Buffer: BufferConfig{
			Allocator: "heap",
		},
	}
}

// Load loads configuration from the BITVIEW_CONFIG environment variable,
// returning Default when it is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Resolve loads path if set, otherwise falls back to Load.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Load()
}

// LoadFile loads configuration from a specific file path over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindIOFailure, err, "reading "+path)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = cfg.decodeJSON(data)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("config", filepath.Base(path)).
			Cause(err).
			Detail("parse failed").
			Build()
	}
	return cfg, nil
}

func (c *Config) decodeJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if _, err := kind.Parse(c.View.Kind); err != nil {
		errs = append(errs, fmt.Errorf("view.kind: %w", err))
	}
	if c.View.Columns <= 0 {
		errs = append(errs, fmt.Errorf("view.columns must be positive, got %d", c.View.Columns))
	}
	if _, err := codec.ParseCompression(c.Codec.Compression); err != nil {
		errs = append(errs, fmt.Errorf("codec.compression: %w", err))
	}
	if c.Codec.MaxBits == 0 || c.Codec.MaxBits > buffer.MaxBits {
		errs = append(errs, fmt.Errorf("codec.max_bits must be in [1, %d], got %d", uint64(buffer.MaxBits), c.Codec.MaxBits))
	}
	if _, ok := buffer.AllocatorByName(c.Buffer.Allocator); !ok {
		errs = append(errs, fmt.Errorf("buffer.allocator must be heap or mmap, got %q", c.Buffer.Allocator))
	}

	if err := stderrors.Join(errs...); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("config").
			Cause(err).
			Detail("%d invalid fields", len(errs)).
			Build()
	}
	return nil
}

// ViewKind returns the parsed view kind. Call Validate first.
func (c *Config) ViewKind() kind.Kind {
	k, _ := kind.Parse(c.View.Kind)
	return k
}

// Compression returns the parsed codec compression. Call Validate first.
func (c *Config) Compression() codec.Compression {
	comp, _ := codec.ParseCompression(c.Codec.Compression)
	return comp
}

// Allocator returns the configured buffer allocator. Call Validate first.
func (c *Config) Allocator() buffer.Allocator {
	a, ok := buffer.AllocatorByName(c.Buffer.Allocator)
	if !ok {
		return buffer.DefaultAllocator
	}
	return a
}

// NewLogger builds a zap logger from the log section.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if c.Log.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
