package metrics

import (
	"time"

	"github.com/kilianp07/iexsim/core/model"
)

// Outcome classifies the result of a simulation request.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeInvalidInput Outcome = "invalid_input"
	OutcomeDegenerate   Outcome = "degenerate"
	OutcomeError        Outcome = "error"
)

// SimulationEvent describes one simulation request and its result.
type SimulationEvent struct {
	ID     string
	Preset string
	// Origin names the caller surface, e.g. "api", "mqtt" or "cli".
	Origin   string
	Params   model.DistributionParameters
	Interval model.ConfidenceInterval
	Accuracy *float64
	Samples  int
	Duration time.Duration
	Outcome  Outcome
	Error    string
	Time     time.Time
}

// MetricsSink records simulation events for observability purposes.
type MetricsSink interface {
	RecordSimulation(ev SimulationEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSimulation(SimulationEvent) error { return nil }

// PresetCatalogRecorder is implemented by sinks that expose the available presets.
type PresetCatalogRecorder interface {
	RecordPresetCatalog(names []string) error
}

// Ensure NopSink implements PresetCatalogRecorder.
func (NopSink) RecordPresetCatalog([]string) error { return nil }
