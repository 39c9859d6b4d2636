package config

import "fmt"

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	// Address is the listen address. Empty disables the API in serve mode.
	Address        string   `json:"address"`
	AllowedOrigins []string `json:"allowed_origins"`
	// Release switches gin to release mode.
	Release bool `json:"release"`
	// Disabled turns the API off.
	Disabled bool `json:"disabled"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" && !c.Disabled {
		c.Address = ":8080"
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if !c.Disabled && c.Address == "" {
		return fmt.Errorf("address is required")
	}
	for _, o := range c.AllowedOrigins {
		if o == "" {
			return fmt.Errorf("allowed_origins must not contain empty entries")
		}
	}
	return nil
}
