// Package config provides the disassembler configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/sim8086/insts"
)

// Config holds listing and decoding options.
type Config struct {
	// Header emits "bits 16" at the top of each listing so the output
	// reassembles with NASM. Default: true.
	Header bool `json:"header"`

	// ShowOffsets appends the offset of each instruction as a trailing
	// comment. Default: false.
	ShowOffsets bool `json:"show_offsets"`

	// ShowBytes appends the encoded bytes of each instruction as a
	// trailing comment. Default: false.
	ShowBytes bool `json:"show_bytes"`

	// ImmediatePolicy is "signed" or "unsigned". See
	// insts.ImmediatePolicy. Default: "signed".
	ImmediatePolicy string `json:"immediate_policy"`

	// Workers bounds how many programs are disassembled at once.
	// Default: 4.
	Workers int `json:"workers"`

	// Verbosity is the log level; 0 logs errors only. Default: 0.
	Verbosity int `json:"verbosity"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Header:          true,
		ShowOffsets:     false,
		ShowBytes:       false,
		ImmediatePolicy: insts.ImmediateSigned.String(),
		Workers:         4,
		Verbosity:       0,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if _, err := insts.ParseImmediatePolicy(c.ImmediatePolicy); err != nil {
		return fmt.Errorf("immediate_policy: %w", err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must be >= 0")
	}
	return nil
}

// Immediates returns the parsed immediate policy. It falls back to
// insts.ImmediateSigned for an invalid value; call Validate first.
func (c *Config) Immediates() insts.ImmediatePolicy {
	p, err := insts.ParseImmediatePolicy(c.ImmediatePolicy)
	if err != nil {
		return insts.ImmediateSigned
	}
	return p
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
