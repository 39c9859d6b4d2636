package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{PresetCoalGas, PresetCombined, PresetFull, PresetHorizon}, PresetNames())
	for _, cfg := range Presets() {
		t.Run(cfg.Name, func(t *testing.T) {
			require.NoError(t, cfg.Validate())
			assert.Equal(t, DefaultBasePrice, cfg.BasePrice)
			assert.Equal(t, DefaultBaselineStdDev, cfg.BaselineStdDev)
			assert.Equal(t, 100*float64(len(cfg.FossilSources)), cfg.FuelDivisor)
			assert.Equal(t, ConfidenceRange, cfg.Ranges.Confidence)
		})
	}
	_, err := Preset("missing")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Panics(t, func() { MustPreset("missing") })
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := Config{Name: "custom", FossilSources: []FossilSource{FossilCoal, FossilGas}}
	cfg.SetDefaults()
	assert.Equal(t, 200.0, cfg.FuelDivisor)
	assert.Len(t, cfg.Renewables, 4)
	require.NotNil(t, cfg.MeanDampening)
	require.NotNil(t, cfg.VolatilityDampening)
	assert.Equal(t, DefaultMeanDampening, *cfg.MeanDampening)
	assert.Equal(t, DefaultVolatilityDampening, *cfg.VolatilityDampening)
	assert.Equal(t, FossilRange, cfg.Ranges.Fossil)
	assert.Equal(t, DefaultSamples, cfg.DefaultSamples)
	assert.Nil(t, cfg.Accuracy)
	require.NoError(t, cfg.Validate())
}

/*
TestConfig_Validate rejects inconsistent configurations.

	Cases:
	- missing name
	- unknown and duplicate sources
	- combined slider mixed with coal
	- non-positive constants
	- inverted range and confidence above 100
*/
func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"name", func(c *Config) { c.Name = "" }},
		{"unknown fossil", func(c *Config) { c.FossilSources = []FossilSource{"oil"} }},
		{"duplicate fossil", func(c *Config) { c.FossilSources = []FossilSource{FossilCoal, FossilCoal} }},
		{"combined with coal", func(c *Config) { c.FossilSources = []FossilSource{FossilCombined, FossilCoal} }},
		{"unknown renewable", func(c *Config) { c.Renewables = []RenewableSource{"tidal"} }},
		{"duplicate renewable", func(c *Config) { c.Renewables = []RenewableSource{RenewableWind, RenewableWind} }},
		{"base price", func(c *Config) { c.BasePrice = -1 }},
		{"std dev", func(c *Config) { c.BaselineStdDev = -0.5 }},
		{"divisor", func(c *Config) { c.FuelDivisor = -3 }},
		{"dampening", func(c *Config) { c.MeanDampening = Dampening(-0.1) }},
		{"range", func(c *Config) { c.Ranges.Shock = Range{Min: 10, Max: -10} }},
		{"confidence", func(c *Config) { c.Ranges.Confidence = Range{Min: 70, Max: 120} }},
		{"samples", func(c *Config) { c.DefaultSamples = c.MaxSamples + 1 }},
		{"decay", func(c *Config) { c.Accuracy = &LinearDecay{BaseYear: 2026, Start: 90, RatePerYear: -1} }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := MustPreset(PresetFull)
			c.mut(&cfg)
			assert.Error(t, cfg.Validate())
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestLinearDecay(t *testing.T) {
	half := HalfPointDecay()
	assert.Equal(t, 90.0, half.At(2026))
	assert.Equal(t, 88.0, half.At(2030))
	assert.Equal(t, 78.0, half.At(2050))
	assert.Equal(t, 50.0, half.At(2126))

	tenth := TenthPointDecay()
	assert.InDelta(t, 87.6, tenth.At(2050), 1e-9)
	assert.InDelta(t, 80.0, tenth.At(2126), 1e-9)
	assert.Less(t, tenth.At(3000), 0.0)
}

func TestModel_Accuracy(t *testing.T) {
	full, err := New(MustPreset(PresetFull))
	require.NoError(t, err)
	acc, ok, err := full.Accuracy(2030)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 88.0, acc)

	_, _, err = full.Accuracy(2051)
	assert.ErrorIs(t, err, ErrInvalidInput)

	horizon, err := New(MustPreset(PresetHorizon))
	require.NoError(t, err)
	acc, ok, err = horizon.Accuracy(2030)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 89.6, acc, 1e-9)

	coalGas, err := New(MustPreset(PresetCoalGas))
	require.NoError(t, err)
	_, ok, err = coalGas.Accuracy(2030)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModel_Validate(t *testing.T) {
	m, err := New(MustPreset(PresetFull))
	require.NoError(t, err)
	in := scenario(20)
	require.NoError(t, m.Validate(in))

	in.PredictionYear = 2025
	assert.ErrorIs(t, m.Validate(in), ErrInvalidInput)
	in.PredictionYear = 2040
	in.ConfidenceLevelPct = 0
	assert.ErrorIs(t, m.Validate(in), ErrInvalidInput)
}
