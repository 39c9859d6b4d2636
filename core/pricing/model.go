package pricing

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/iexsim/core/model"
)

// Option customizes a Model.
type Option func(*Model)

// WithSourceFactory sets the constructor of the random source used by Sample.
// The factory is called once per Sample call so that a Model stays safe for
// concurrent use with non thread-safe sources.
func WithSourceFactory(f func() rand.Source) Option {
	return func(m *Model) { m.newSource = f }
}

// WithSeed makes every Sample call draw from a PCG source seeded with seed,
// yielding identical samples for identical parameters.
func WithSeed(seed uint64) Option {
	return WithSourceFactory(func() rand.Source { return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15) })
}

// Model computes price distributions for one configuration. It holds no
// mutable state.
type Model struct {
	cfg       Config
	newSource func() rand.Source
}

// New validates cfg and returns a Model. Without a source option, sampling
// uses the global generator.
func New(cfg Config, opts ...Option) (*Model, error) {
	cfg = cfg.clone()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{cfg: cfg}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Name returns the configuration name.
func (m *Model) Name() string { return m.cfg.Name }

// Config returns a copy of the model configuration.
func (m *Model) Config() Config { return m.cfg.clone() }

// RenewableAggregate returns the mean growth of the modeled renewable sources.
func (m *Model) RenewableAggregate(in model.ScenarioInput) float64 {
	var sum float64
	for _, r := range m.cfg.Renewables {
		sum += renewableValue(in, r)
	}
	return sum / float64(len(m.cfg.Renewables))
}

// FuelFactor returns the multiplier applied to the base price for fossil input costs.
func (m *Model) FuelFactor(in model.ScenarioInput) float64 {
	var sum float64
	for _, s := range m.cfg.FossilSources {
		sum += fossilValue(in, s)
	}
	return 1 + sum/m.cfg.FuelDivisor
}

// ShockFactor returns 1 + shock/100 when the shock term is modeled, else 1.
func (m *Model) ShockFactor(in model.ScenarioInput) float64 {
	if !m.cfg.ExternalShock {
		return 1
	}
	return 1 + in.ExternalShockPct/100
}

// Parameters maps a scenario to the mean and standard deviation of the price.
// Only the fields the model uses are range checked; confidence level and year
// are checked by Interval and Accuracy.
func (m *Model) Parameters(in model.ScenarioInput) (model.DistributionParameters, error) {
	if err := m.validateDrivers(in); err != nil {
		return model.DistributionParameters{}, err
	}
	agg := m.RenewableAggregate(in)
	shock := m.ShockFactor(in)
	meanDamp, volDamp := *m.cfg.MeanDampening, *m.cfg.VolatilityDampening
	mean := m.cfg.BasePrice * m.FuelFactor(in) * (1 - agg/100*meanDamp) * shock
	reFactor := 1 - agg/100*volDamp
	p := model.DistributionParameters{
		MeanPrice: mean,
		StdDev:    m.cfg.BaselineStdDev * reFactor * shock,
	}
	if err := checkDistribution(p); err != nil {
		return model.DistributionParameters{}, err
	}
	return p, nil
}

// Interval returns the two-sided interval holding level percent of the
// probability mass. A level of 100 yields infinite bounds.
func (m *Model) Interval(p model.DistributionParameters, level float64) (model.ConfidenceInterval, error) {
	if err := checkDistribution(p); err != nil {
		return model.ConfidenceInterval{}, err
	}
	if rng := m.cfg.Ranges.Confidence; !rng.Contains(level) {
		return model.ConfidenceInterval{}, &InputError{Field: "confidence_level_pct", Value: level, Range: rng}
	}
	return interval(p, level), nil
}

func interval(p model.DistributionParameters, level float64) model.ConfidenceInterval {
	ci := model.ConfidenceInterval{Level: level}
	if level >= 100 {
		ci.LowerBound, ci.UpperBound = math.Inf(-1), math.Inf(1)
		return ci
	}
	alpha := (1 - level/100) / 2
	n := distuv.Normal{Mu: p.MeanPrice, Sigma: p.StdDev}
	ci.LowerBound = n.Quantile(alpha)
	ci.UpperBound = n.Quantile(1 - alpha)
	return ci
}

// Sample draws n prices from the distribution. n == 0 selects the configured
// default size.
func (m *Model) Sample(p model.DistributionParameters, n int) ([]float64, error) {
	if err := checkDistribution(p); err != nil {
		return nil, err
	}
	if n == 0 {
		n = m.cfg.DefaultSamples
	}
	if n < 0 || n > m.cfg.MaxSamples {
		return nil, &InputError{Field: "samples", Value: float64(n), Range: Range{Min: 0, Max: float64(m.cfg.MaxSamples)}}
	}
	dist := distuv.Normal{Mu: p.MeanPrice, Sigma: p.StdDev}
	if m.newSource != nil {
		dist.Src = m.newSource()
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out, nil
}

// Curve evaluates the density at points evenly spaced prices over
// mean ± span standard deviations. Zero values select 500 points and 3σ.
func (m *Model) Curve(p model.DistributionParameters, points int, span float64) ([]model.CurvePoint, error) {
	if err := checkDistribution(p); err != nil {
		return nil, err
	}
	if points == 0 {
		points = DefaultCurvePoints
	}
	if span == 0 {
		span = DefaultCurveSpan
	}
	if points < 2 || points > m.cfg.MaxSamples {
		return nil, &InputError{Field: "curve_points", Value: float64(points), Range: Range{Min: 2, Max: float64(m.cfg.MaxSamples)}}
	}
	if !finite(span) || span <= 0 {
		return nil, &InputError{Field: "curve_span", Value: span, Range: Range{Min: 0, Max: math.MaxFloat64}}
	}
	n := distuv.Normal{Mu: p.MeanPrice, Sigma: p.StdDev}
	lo := p.MeanPrice - span*p.StdDev
	hi := p.MeanPrice + span*p.StdDev
	xs := floats.Span(make([]float64, points), lo, hi)
	out := make([]model.CurvePoint, points)
	for i, x := range xs {
		out[i] = model.CurvePoint{Price: x, Density: n.Prob(x)}
	}
	return out, nil
}

// Accuracy returns the prediction accuracy for year. ok is false when the
// model has no accuracy decay configured.
func (m *Model) Accuracy(year int) (acc float64, ok bool, err error) {
	if m.cfg.Accuracy == nil {
		return 0, false, nil
	}
	if rng := m.cfg.Ranges.Year; !rng.Contains(float64(year)) {
		return 0, false, &InputError{Field: "prediction_year", Value: float64(year), Range: rng}
	}
	return m.cfg.Accuracy.At(year), true, nil
}

// Summarize computes the empirical moments of a sample.
func Summarize(samples []float64) model.SampleSummary {
	if len(samples) == 0 {
		return model.SampleSummary{}
	}
	mean, std := stat.MeanStdDev(samples, nil)
	return model.SampleSummary{
		Count:  len(samples),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(samples),
		Max:    floats.Max(samples),
	}
}

func checkDistribution(p model.DistributionParameters) error {
	if !finite(p.MeanPrice) {
		return degenerate(p.MeanPrice, "mean_price")
	}
	if !finite(p.StdDev) || p.StdDev <= 0 {
		return degenerate(p.StdDev, "std_dev")
	}
	return nil
}

func fossilValue(in model.ScenarioInput, s FossilSource) float64 {
	switch s {
	case FossilCoal:
		return in.CoalVariationPct
	case FossilGas:
		return in.GasVariationPct
	case FossilNuclear:
		return in.NuclearVariationPct
	case FossilCombined:
		return in.CombinedFossilVariationPct
	}
	return 0
}

func renewableValue(in model.ScenarioInput, r RenewableSource) float64 {
	switch r {
	case RenewableSolar:
		return in.SolarGrowthPct
	case RenewableHydro:
		return in.HydroGrowthPct
	case RenewableWind:
		return in.WindGrowthPct
	case RenewableOther:
		return in.OtherRenewableGrowthPct
	}
	return 0
}
