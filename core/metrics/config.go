package metrics

import "github.com/kilianp07/iexsim/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusAddress is the listen address of the /metrics endpoint. Empty disables it.
	PrometheusAddress string `json:"prometheus_address" yaml:"prometheus_address"`
}
