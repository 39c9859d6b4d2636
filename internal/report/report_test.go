package report

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/iexsim/core/model"
	"github.com/kilianp07/iexsim/core/pricing"
)

func TestMoney(t *testing.T) {
	cases := map[float64]string{
		4.9:          "4.90",
		4.1269:       "4.13",
		math.Inf(1):  "+∞",
		math.Inf(-1): "-∞",
	}
	for in, want := range cases {
		assert.Equal(t, want, Money(in), "value %v", in)
	}
}

func TestFromSimulation(t *testing.T) {
	acc := 88.0
	sim := pricing.Simulation{
		ID:         "id",
		Preset:     "full",
		Parameters: model.DistributionParameters{MeanPrice: 4.9, StdDev: 0.47},
		Interval:   model.ConfidenceInterval{Level: 90, LowerBound: 4.127, UpperBound: 5.673},
		Accuracy:   &acc,
	}
	out := FromSimulation(sim)
	require.NotNil(t, out.Interval.LowerBound)
	assert.Equal(t, 4.127, *out.Interval.LowerBound)
	assert.False(t, out.Interval.Unbounded)
	assert.Equal(t, Display{MeanPrice: "4.90", StdDev: "0.47", LowerBound: "4.13", UpperBound: "5.67", Accuracy: "88.0%"}, out.Display)
}

func TestFromSimulation_Unbounded(t *testing.T) {
	sim := pricing.Simulation{
		Parameters: model.DistributionParameters{MeanPrice: 5, StdDev: 0.5},
		Interval:   model.ConfidenceInterval{Level: 100, LowerBound: math.Inf(-1), UpperBound: math.Inf(1)},
	}
	out := FromSimulation(sim)
	assert.True(t, out.Interval.Unbounded)
	assert.Nil(t, out.Interval.LowerBound)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"lower_bound":null`)
}

func TestFromError(t *testing.T) {
	assert.Equal(t, CodeInvalidInput, FromError(&pricing.InputError{Field: "coal_variation_pct", Value: 99}).Code)
	assert.Equal(t, CodeInvalidInput, FromError(pricing.ErrUnknownPreset).Code)
	assert.Equal(t, CodeDegenerate, FromError(pricing.ErrDegenerateDistribution).Code)
	assert.Equal(t, CodeInternal, FromError(context.Canceled).Code)
	body := FromError(errors.New("db password leaked"))
	assert.Equal(t, ErrorBody{Code: CodeInternal, Message: "internal error"}, body)
}

func TestRequest_SimulationRequest(t *testing.T) {
	r := Request{Preset: "full", Samples: 10}
	sr := r.SimulationRequest("api")
	assert.True(t, sr.Sample)
	assert.Equal(t, 10, sr.SampleSize)
	assert.False(t, sr.Curve)
	assert.Equal(t, "api", sr.Origin)
}

func TestPresets(t *testing.T) {
	svc, err := pricing.NewPresetService(pricing.MustPreset(pricing.PresetFull), nil, nopLogger{})
	require.NoError(t, err)
	ps := Presets(svc)
	require.Len(t, ps, 4)
	var defaults int
	for _, p := range ps {
		if p.Default {
			defaults++
			assert.Equal(t, pricing.PresetFull, p.Name)
		}
	}
	assert.Equal(t, 1, defaults)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
