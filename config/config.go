// Package config holds derivation settings, loaded from YAML.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"solpda/address"
)

// Output formats for rendering addresses.
const (
	OutputBase58 = "base58"
	OutputBytes  = "bytes"
)

// Config controls how derivations run and how results are rendered.
type Config struct {
	Workers           int             `yaml:"workers" description:"Goroutines used for the bump search (1 = sequential, 0 = one per CPU)" default:"1"`
	EnforceSeedLimits bool            `yaml:"enforce_seed_limits" description:"Reject more than 16 seeds or seeds longer than 32 bytes" default:"false"`
	NoBumpSeed        bool            `yaml:"no_bump_seed" description:"Hash the seeds once without searching for a bump seed" default:"false"`
	Output            string          `yaml:"output" description:"Address rendering: base58 or bytes" default:"base58"`
	Debug             bool            `yaml:"debug" description:"Enable debug logging" default:"false"`
	Program           address.Address `yaml:"program" description:"Default program id (base58 or byte array)"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Workers: 1,
		Output:  OutputBase58,
	}
}

// Parse overlays YAML data onto the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d: must be >= 0", c.Workers)
	}
	switch c.Output {
	case OutputBase58, OutputBytes:
	default:
		return fmt.Errorf("invalid output %q: must be %q or %q", c.Output, OutputBase58, OutputBytes)
	}
	return nil
}

// AsBytes reports whether addresses render as byte lists.
func (c Config) AsBytes() bool {
	return c.Output == OutputBytes
}
