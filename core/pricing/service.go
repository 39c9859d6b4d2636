package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/iexsim/core/logger"
	"github.com/kilianp07/iexsim/core/metrics"
	"github.com/kilianp07/iexsim/core/model"
	"github.com/kilianp07/iexsim/core/monitoring"
)

// EventPublisher receives one event per simulation request.
type EventPublisher interface {
	Publish(ev metrics.SimulationEvent)
}

// SimulationRequest selects a preset and carries the scenario plus the
// optional display outputs.
type SimulationRequest struct {
	Preset   string              `json:"preset,omitempty"`
	Scenario model.ScenarioInput `json:"scenario"`
	// Sample enables drawing SampleSize prices (0 selects the model default).
	Sample     bool `json:"sample,omitempty"`
	SampleSize int  `json:"sample_size,omitempty"`
	// Curve enables the density curve with CurvePoints points (0 selects 500).
	Curve       bool `json:"curve,omitempty"`
	CurvePoints int  `json:"curve_points,omitempty"`
	// Origin names the caller surface for observability.
	Origin string `json:"-"`
}

// Simulation is the result of a simulation request.
type Simulation struct {
	ID                 string
	Preset             string
	Scenario           model.ScenarioInput
	Parameters         model.DistributionParameters
	RenewableAggregate float64
	Interval           model.ConfidenceInterval
	// Accuracy is nil when the preset has no accuracy decay or no year was given.
	Accuracy      *float64
	Samples       []float64
	SampleSummary *model.SampleSummary
	Curve         []model.CurvePoint
	CreatedAt     time.Time
}

// Service runs simulations against a catalogue of models.
type Service struct {
	models map[string]*Model
	def    string
	pub    EventPublisher
	log    logger.Logger
	now    func() time.Time
}

// NewService returns a Service whose default model is def. Additional models
// are addressable by name; def wins over an additional model of the same name.
func NewService(def *Model, others []*Model, pub EventPublisher, log logger.Logger) (*Service, error) {
	if def == nil {
		return nil, fmt.Errorf("default model is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	models := make(map[string]*Model, len(others)+1)
	for _, m := range others {
		if m != nil {
			models[m.Name()] = m
		}
	}
	models[def.Name()] = def
	return &Service{models: models, def: def.Name(), pub: pub, log: log, now: time.Now}, nil
}

// NewPresetService builds the default model from def and one model per
// preset, all sharing opts.
func NewPresetService(def Config, pub EventPublisher, log logger.Logger, opts ...Option) (*Service, error) {
	dm, err := New(def, opts...)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", def.Name, err)
	}
	var others []*Model
	for _, cfg := range Presets() {
		m, err := New(cfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", cfg.Name, err)
		}
		others = append(others, m)
	}
	return NewService(dm, others, pub, log)
}

// DefaultPreset returns the name of the default model.
func (s *Service) DefaultPreset() string { return s.def }

// Model returns the model registered under name; an empty name selects the default.
func (s *Service) Model(name string) (*Model, error) {
	if name == "" {
		name = s.def
	}
	m, ok := s.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return m, nil
}

// Configs returns the configuration of every model, ordered by name.
func (s *Service) Configs() []Config {
	names := make([]string, 0, len(s.models))
	for n := range s.models {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Config, 0, len(names))
	for _, n := range names {
		out = append(out, s.models[n].Config())
	}
	return out
}

// Simulate validates the scenario and computes its distribution, interval,
// accuracy and the requested display outputs.
func (s *Service) Simulate(ctx context.Context, req SimulationRequest) (Simulation, error) {
	start := time.Now()
	sim, err := s.simulate(ctx, req)
	s.publish(req, sim, err, time.Since(start))
	return sim, err
}

func (s *Service) simulate(ctx context.Context, req SimulationRequest) (Simulation, error) {
	if err := ctx.Err(); err != nil {
		return Simulation{}, err
	}
	m, err := s.Model(req.Preset)
	if err != nil {
		return Simulation{}, err
	}
	sim := Simulation{ID: uuid.NewString(), Preset: m.Name(), Scenario: req.Scenario, CreatedAt: s.now()}
	if err := m.Validate(req.Scenario); err != nil {
		return sim, err
	}
	if sim.Parameters, err = m.Parameters(req.Scenario); err != nil {
		return sim, err
	}
	sim.RenewableAggregate = m.RenewableAggregate(req.Scenario)
	if sim.Interval, err = m.Interval(sim.Parameters, req.Scenario.ConfidenceLevelPct); err != nil {
		return sim, err
	}
	if req.Scenario.PredictionYear != 0 {
		acc, ok, err := m.Accuracy(req.Scenario.PredictionYear)
		if err != nil {
			return sim, err
		}
		if ok {
			sim.Accuracy = &acc
		}
	}
	if req.Sample {
		if err := ctx.Err(); err != nil {
			return sim, err
		}
		if sim.Samples, err = m.Sample(sim.Parameters, req.SampleSize); err != nil {
			return sim, err
		}
		summary := Summarize(sim.Samples)
		sim.SampleSummary = &summary
	}
	if req.Curve {
		if sim.Curve, err = m.Curve(sim.Parameters, req.CurvePoints, 0); err != nil {
			return sim, err
		}
	}
	return sim, nil
}

func (s *Service) publish(req SimulationRequest, sim Simulation, err error, d time.Duration) {
	outcome := OutcomeOf(err)
	ev := metrics.SimulationEvent{
		ID:       sim.ID,
		Preset:   sim.Preset,
		Origin:   req.Origin,
		Params:   sim.Parameters,
		Interval: sim.Interval,
		Accuracy: sim.Accuracy,
		Samples:  len(sim.Samples),
		Duration: d,
		Outcome:  outcome,
		Time:     s.now(),
	}
	if ev.Preset == "" {
		ev.Preset = req.Preset
	}
	if err != nil {
		ev.Error = err.Error()
		s.log.Debugw("simulation rejected", map[string]any{"preset": ev.Preset, "origin": req.Origin, "error": ev.Error})
	} else {
		s.log.Debugw("simulation computed", map[string]any{
			"id":         sim.ID,
			"preset":     sim.Preset,
			"mean_price": sim.Parameters.MeanPrice,
			"std_dev":    sim.Parameters.StdDev,
		})
	}
	if outcome == metrics.OutcomeDegenerate || outcome == metrics.OutcomeError {
		monitoring.CaptureException(err, map[string]string{"module": "pricing", "preset": ev.Preset, "origin": req.Origin})
	}
	if s.pub != nil {
		s.pub.Publish(ev)
	}
}

// OutcomeOf classifies err for metrics.
func OutcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownPreset):
		return metrics.OutcomeInvalidInput
	case errors.Is(err, ErrDegenerateDistribution):
		return metrics.OutcomeDegenerate
	default:
		return metrics.OutcomeError
	}
}
