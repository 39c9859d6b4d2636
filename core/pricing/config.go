package pricing

import (
	"fmt"
	"math"
)

// FossilSource identifies a fossil fuel price slider.
type FossilSource string

const (
	FossilCoal    FossilSource = "coal"
	FossilGas     FossilSource = "gas"
	FossilNuclear FossilSource = "nuclear"
	// FossilCombined is the single coal/gas slider.
	FossilCombined FossilSource = "coal_gas"
)

// RenewableSource identifies a renewable growth slider.
type RenewableSource string

const (
	RenewableSolar RenewableSource = "solar"
	RenewableHydro RenewableSource = "hydro"
	RenewableWind  RenewableSource = "wind"
	RenewableOther RenewableSource = "other"
)

// Range is a closed interval of accepted values.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v is finite and within the range.
func (r Range) Contains(v float64) bool {
	return finite(v) && v >= r.Min && v <= r.Max
}

// Documented slider ranges, used when Config.Ranges leaves a range unset.
var (
	FossilRange     = Range{Min: -50, Max: 50}
	RenewableRange  = Range{Min: 5, Max: 50}
	ShockRange      = Range{Min: -20, Max: 20}
	ConfidenceRange = Range{Min: 70, Max: 100}
	YearRange       = Range{Min: 2026, Max: 2050}
)

// Ranges bounds the accepted scenario values.
type Ranges struct {
	Fossil     Range `json:"fossil" yaml:"fossil"`
	Renewable  Range `json:"renewable" yaml:"renewable"`
	Shock      Range `json:"shock" yaml:"shock"`
	Confidence Range `json:"confidence" yaml:"confidence"`
	Year       Range `json:"year" yaml:"year"`
}

func (r *Ranges) setDefaults() {
	for _, x := range []struct {
		dst *Range
		def Range
	}{
		{&r.Fossil, FossilRange},
		{&r.Renewable, RenewableRange},
		{&r.Shock, ShockRange},
		{&r.Confidence, ConfidenceRange},
		{&r.Year, YearRange},
	} {
		if *x.dst == (Range{}) {
			*x.dst = x.def
		}
	}
}

func (r Ranges) validate() error {
	for name, x := range map[string]Range{
		"fossil": r.Fossil, "renewable": r.Renewable, "shock": r.Shock,
		"confidence": r.Confidence, "year": r.Year,
	} {
		if !finite(x.Min) || !finite(x.Max) || x.Min > x.Max {
			return fmt.Errorf("range %s: min must not exceed max", name)
		}
	}
	if r.Confidence.Min <= 0 || r.Confidence.Max > 100 {
		return fmt.Errorf("range confidence must lie within (0, 100]")
	}
	return nil
}

// Default model constants.
const (
	DefaultBasePrice           = 5.0
	DefaultBaselineStdDev      = 0.5
	DefaultMeanDampening       = 0.1
	DefaultVolatilityDampening = 0.3
	DefaultSamples             = 1000
	DefaultMaxSamples          = 100000
	DefaultCurvePoints         = 500
	DefaultCurveSpan           = 3.0
)

// Config parameterizes the price model.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// BasePrice is the expected price in ₹/kWh with no variation.
	BasePrice float64 `json:"base_price" yaml:"base_price"`
	// BaselineStdDev is the volatility in ₹/kWh with no renewable growth and no shock.
	BaselineStdDev float64 `json:"baseline_std_dev" yaml:"baseline_std_dev"`

	FossilSources []FossilSource `json:"fossil_sources" yaml:"fossil_sources"`
	// FuelDivisor scales the summed fossil variations. Zero selects 100 per modeled source.
	FuelDivisor float64 `json:"fuel_divisor" yaml:"fuel_divisor"`

	Renewables []RenewableSource `json:"renewables" yaml:"renewables"`
	// MeanDampening and VolatilityDampening scale the renewable aggregate.
	// Nil selects the default; zero disables the effect.
	MeanDampening       *float64 `json:"mean_dampening,omitempty" yaml:"mean_dampening,omitempty"`
	VolatilityDampening *float64 `json:"volatility_dampening,omitempty" yaml:"volatility_dampening,omitempty"`

	ExternalShock bool `json:"external_shock" yaml:"external_shock"`

	// Accuracy is the prediction accuracy decay. Nil disables the accuracy metric.
	Accuracy *LinearDecay `json:"accuracy,omitempty" yaml:"accuracy,omitempty"`

	Ranges Ranges `json:"ranges" yaml:"ranges"`

	DefaultSamples int `json:"default_samples" yaml:"default_samples"`
	MaxSamples     int `json:"max_samples" yaml:"max_samples"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.BasePrice == 0 {
		c.BasePrice = DefaultBasePrice
	}
	if c.BaselineStdDev == 0 {
		c.BaselineStdDev = DefaultBaselineStdDev
	}
	if len(c.FossilSources) == 0 {
		c.FossilSources = []FossilSource{FossilCoal, FossilGas, FossilNuclear}
	}
	if c.FuelDivisor == 0 {
		c.FuelDivisor = 100 * float64(len(c.FossilSources))
	}
	if len(c.Renewables) == 0 {
		c.Renewables = []RenewableSource{RenewableSolar, RenewableHydro, RenewableWind, RenewableOther}
	}
	if c.MeanDampening == nil {
		c.MeanDampening = Dampening(DefaultMeanDampening)
	}
	if c.VolatilityDampening == nil {
		c.VolatilityDampening = Dampening(DefaultVolatilityDampening)
	}
	c.Ranges.setDefaults()
	if c.DefaultSamples == 0 {
		c.DefaultSamples = DefaultSamples
	}
	if c.MaxSamples == 0 {
		c.MaxSamples = DefaultMaxSamples
	}
}

// Validate checks the configuration for consistency.
//
//nolint:gocyclo
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("model name is required")
	}
	if !finite(c.BasePrice) || c.BasePrice <= 0 {
		return fmt.Errorf("base_price must be positive")
	}
	if !finite(c.BaselineStdDev) || c.BaselineStdDev <= 0 {
		return fmt.Errorf("baseline_std_dev must be positive")
	}
	if !finite(c.FuelDivisor) || c.FuelDivisor <= 0 {
		return fmt.Errorf("fuel_divisor must be positive")
	}
	seenFossil := map[FossilSource]bool{}
	for _, s := range c.FossilSources {
		switch s {
		case FossilCoal, FossilGas, FossilNuclear, FossilCombined:
		default:
			return fmt.Errorf("unknown fossil source %q", s)
		}
		if seenFossil[s] {
			return fmt.Errorf("duplicate fossil source %q", s)
		}
		seenFossil[s] = true
	}
	if seenFossil[FossilCombined] && (seenFossil[FossilCoal] || seenFossil[FossilGas]) {
		return fmt.Errorf("fossil source %q cannot be combined with coal or gas", FossilCombined)
	}
	seenRenewable := map[RenewableSource]bool{}
	for _, r := range c.Renewables {
		switch r {
		case RenewableSolar, RenewableHydro, RenewableWind, RenewableOther:
		default:
			return fmt.Errorf("unknown renewable source %q", r)
		}
		if seenRenewable[r] {
			return fmt.Errorf("duplicate renewable source %q", r)
		}
		seenRenewable[r] = true
	}
	if d := c.MeanDampening; d != nil && (!finite(*d) || *d < 0) {
		return fmt.Errorf("mean_dampening must not be negative")
	}
	if d := c.VolatilityDampening; d != nil && (!finite(*d) || *d < 0) {
		return fmt.Errorf("volatility_dampening must not be negative")
	}
	if c.Accuracy != nil {
		if err := c.Accuracy.Validate(); err != nil {
			return err
		}
	}
	if err := c.Ranges.validate(); err != nil {
		return err
	}
	if c.DefaultSamples <= 0 || c.MaxSamples <= 0 || c.DefaultSamples > c.MaxSamples {
		return fmt.Errorf("default_samples must be positive and not exceed max_samples")
	}
	return nil
}

// clone returns a deep copy so that callers cannot mutate a model's config.
func (c Config) clone() Config {
	out := c
	out.FossilSources = append([]FossilSource(nil), c.FossilSources...)
	out.Renewables = append([]RenewableSource(nil), c.Renewables...)
	out.MeanDampening = copyFloat(c.MeanDampening)
	out.VolatilityDampening = copyFloat(c.VolatilityDampening)
	if c.Accuracy != nil {
		acc := *c.Accuracy
		if c.Accuracy.Floor != nil {
			floor := *c.Accuracy.Floor
			acc.Floor = &floor
		}
		out.Accuracy = &acc
	}
	return out
}

// Dampening returns a pointer to v for the dampening fields of Config.
func Dampening(v float64) *float64 { return &v }

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Dampening(*v)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
