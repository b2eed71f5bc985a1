// Package config loads the tool's settings from an optional YAML file and
// validates them against an embedded CUE schema.
//
// Precedence, lowest first: Default(), the YAML file, command-line flags.
// Flags are applied by the caller, which should call Validate afterwards.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Config is the complete tool configuration.
type Config struct {
	Database Database `yaml:"database" json:"database"`
	Log      Log      `yaml:"log" json:"log"`
	Output   Output   `yaml:"output" json:"output"`
}

// Database selects the store file and driver.
type Database struct {
	Path          string `yaml:"path" json:"path"`
	Driver        string `yaml:"driver" json:"driver"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms" json:"busy_timeout_ms"`
}

// Log controls the slog handler.
type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Output controls how command results are printed.
type Output struct {
	Format string `yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: Database{
			Path:          "unihan.db",
			Driver:        "sqlite3",
			BusyTimeoutMS: 5000,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Output: Output{
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over Default() and validates the result.
// An empty path yields the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks c against the #Config schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
