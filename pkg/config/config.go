// Package config keeps the constants that shape the line editor. They are
// fixed at start-up: either the defaults, or the defaults overridden by a
// YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultReadBufSize = 65536
	DefaultTabPosition = 8
	DefaultPgOffset    = 10
	DefaultPrompt      = "cmd> "
)

// Config keeps the configuration of a line editing session.
type Config struct {
	// Capacity of the line buffer, including the terminating zero byte.
	ReadBufSize int `yaml:"read_buf_size"`
	// Width of a tab stop.
	TabPosition int `yaml:"tab_position"`
	// Number of history entries skipped by PageUp and PageDown.
	PgOffset int `yaml:"pg_offset"`
	// Prompt printed before each line.
	Prompt string `yaml:"prompt"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ReadBufSize: DefaultReadBufSize,
		TabPosition: DefaultTabPosition,
		PgOffset:    DefaultPgOffset,
		Prompt:      DefaultPrompt,
	}
}

// WithDefaults returns c with every zero numeric field replaced by its
// default. The zero Config yields Default(), including the prompt; otherwise
// the prompt is kept as is, since an empty prompt is valid.
func (c Config) WithDefaults() Config {
	if c == (Config{}) {
		return Default()
	}
	if c.ReadBufSize == 0 {
		c.ReadBufSize = DefaultReadBufSize
	}
	if c.TabPosition == 0 {
		c.TabPosition = DefaultTabPosition
	}
	if c.PgOffset == 0 {
		c.PgOffset = DefaultPgOffset
	}
	return c
}

// Validate checks that all values are usable, and returns an error listing
// every bad field.
func (c Config) Validate() error {
	var errs []error
	if c.ReadBufSize < 2 {
		errs = append(errs, fmt.Errorf("read_buf_size must be at least 2, got %d", c.ReadBufSize))
	}
	if c.TabPosition < 1 {
		errs = append(errs, fmt.Errorf("tab_position must be at least 1, got %d", c.TabPosition))
	}
	if c.PgOffset < 1 {
		errs = append(errs, fmt.Errorf("pg_offset must be at least 1, got %d", c.PgOffset))
	}
	return errors.Join(errs...)
}

// Parse reads a YAML document from r. Fields absent from the document keep
// their default values.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&c)
	if err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Load reads the configuration from the named file. An empty name yields
// the default configuration.
func Load(fname string) (Config, error) {
	if fname == "" {
		return Default(), nil
	}
	f, err := os.Open(fname)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Parse(f)
}
