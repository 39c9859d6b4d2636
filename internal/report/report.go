// Package report converts simulations into the wire format shared by the
// HTTP API, the MQTT responder and the CLI.
package report

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kilianp07/iexsim/core/model"
	"github.com/kilianp07/iexsim/core/pricing"
)

// Error codes.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeDegenerate   = "DEGENERATE_DISTRIBUTION"
	CodeInternal     = "INTERNAL_ERROR"
)

// Request is the wire form of a simulation request. Samples and CurvePoints
// enable the corresponding output when non-zero.
type Request struct {
	RequestID   string              `json:"request_id,omitempty"`
	Preset      string              `json:"preset,omitempty"`
	Scenario    model.ScenarioInput `json:"scenario"`
	Samples     int                 `json:"samples,omitempty"`
	CurvePoints int                 `json:"curve_points,omitempty"`
}

// SimulationRequest converts r for the given caller surface.
func (r Request) SimulationRequest(origin string) pricing.SimulationRequest {
	return pricing.SimulationRequest{
		Preset:      r.Preset,
		Scenario:    r.Scenario,
		Sample:      r.Samples != 0,
		SampleSize:  r.Samples,
		Curve:       r.CurvePoints != 0,
		CurvePoints: r.CurvePoints,
		Origin:      origin,
	}
}

// Interval is the wire form of a confidence interval. Bounds are nil when
// the interval is unbounded.
type Interval struct {
	Level      float64  `json:"level"`
	LowerBound *float64 `json:"lower_bound"`
	UpperBound *float64 `json:"upper_bound"`
	Unbounded  bool     `json:"unbounded"`
}

// Display holds prices rounded to two decimals for presentation.
type Display struct {
	MeanPrice  string `json:"mean_price"`
	StdDev     string `json:"std_dev"`
	LowerBound string `json:"lower_bound"`
	UpperBound string `json:"upper_bound"`
	Accuracy   string `json:"accuracy,omitempty"`
}

// Simulation is the wire form of a computed simulation.
type Simulation struct {
	ID                 string               `json:"id"`
	Preset             string               `json:"preset"`
	MeanPrice          float64              `json:"mean_price"`
	StdDev             float64              `json:"std_dev"`
	RenewableAggregate float64              `json:"renewable_aggregate"`
	Interval           Interval             `json:"interval"`
	Accuracy           *float64             `json:"accuracy,omitempty"`
	Samples            []float64            `json:"samples,omitempty"`
	SampleSummary      *model.SampleSummary `json:"sample_summary,omitempty"`
	Curve              []model.CurvePoint   `json:"curve,omitempty"`
	Display            Display              `json:"display"`
	CreatedAt          time.Time            `json:"created_at"`
}

// FromSimulation builds the wire form of sim.
func FromSimulation(sim pricing.Simulation) Simulation {
	out := Simulation{
		ID:                 sim.ID,
		Preset:             sim.Preset,
		MeanPrice:          sim.Parameters.MeanPrice,
		StdDev:             sim.Parameters.StdDev,
		RenewableAggregate: sim.RenewableAggregate,
		Interval:           Interval{Level: sim.Interval.Level, Unbounded: !sim.Interval.Bounded()},
		Accuracy:           sim.Accuracy,
		Samples:            sim.Samples,
		SampleSummary:      sim.SampleSummary,
		Curve:              sim.Curve,
		CreatedAt:          sim.CreatedAt,
		Display: Display{
			MeanPrice:  Money(sim.Parameters.MeanPrice),
			StdDev:     Money(sim.Parameters.StdDev),
			LowerBound: Money(sim.Interval.LowerBound),
			UpperBound: Money(sim.Interval.UpperBound),
		},
	}
	if !out.Interval.Unbounded {
		lo, hi := sim.Interval.LowerBound, sim.Interval.UpperBound
		out.Interval.LowerBound, out.Interval.UpperBound = &lo, &hi
	}
	if sim.Accuracy != nil {
		out.Display.Accuracy = decimal.NewFromFloat(*sim.Accuracy).StringFixed(1) + "%"
	}
	return out
}

// Money formats a price in ₹/kWh with two decimals. Infinite values render
// as "-∞" or "+∞".
func Money(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-∞"
	case math.IsInf(v, 1):
		return "+∞"
	case math.IsNaN(v):
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ErrorBody is the wire form of a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FromError classifies err.
func FromError(err error) ErrorBody {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput), errors.Is(err, pricing.ErrUnknownPreset):
		return ErrorBody{Code: CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, pricing.ErrDegenerateDistribution):
		return ErrorBody{Code: CodeDegenerate, Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorBody{Code: CodeInternal, Message: err.Error()}
	default:
		return ErrorBody{Code: CodeInternal, Message: "internal error"}
	}
}

// Preset is the wire form of a model configuration.
type Preset struct {
	pricing.Config
	Default bool `json:"default"`
}

// Presets lists the service's catalogue.
func Presets(svc *pricing.Service) []Preset {
	cfgs := svc.Configs()
	out := make([]Preset, len(cfgs))
	for i, c := range cfgs {
		out[i] = Preset{Config: c, Default: c.Name == svc.DefaultPreset()}
	}
	return out
}
