package config

import (
	"fmt"

	"github.com/kilianp07/iexsim/core/pricing"
)

// ModelConfig selects the default price model.
type ModelConfig struct {
	// Preset names the default model. Ignored when Custom is set.
	Preset string `json:"preset"`
	// Custom defines a model from scratch; unset fields take the package defaults.
	Custom *pricing.Config `json:"custom"`
	// Seed makes sampling reproducible. Zero uses the process-wide generator.
	Seed uint64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *ModelConfig) SetDefaults() {
	if c.Preset == "" && c.Custom == nil {
		c.Preset = pricing.PresetFull
	}
}

// Validate checks that the default model can be built.
func (c ModelConfig) Validate() error {
	_, err := c.Resolve()
	return err
}

// Resolve returns the configuration of the default model.
func (c ModelConfig) Resolve() (pricing.Config, error) {
	if c.Custom != nil {
		cfg := *c.Custom
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return pricing.Config{}, fmt.Errorf("custom model: %w", err)
		}
		return cfg, nil
	}
	return pricing.Preset(c.Preset)
}

// Options returns the model options implied by the configuration.
func (c ModelConfig) Options() []pricing.Option {
	if c.Seed == 0 {
		return nil
	}
	return []pricing.Option{pricing.WithSeed(c.Seed)}
}
