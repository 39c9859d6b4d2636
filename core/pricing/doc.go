// Package pricing maps market scenarios to a normal distribution of the
// simulated IEX price and derives confidence intervals from it.
//
// A Model is built from a Config that declares which fossil and renewable
// sources are modeled, whether the external shock term applies and how the
// prediction accuracy decays with the horizon. The dashboard variants are
// available as named presets:
//
//	m, err := pricing.New(pricing.MustPreset(pricing.PresetFull))
//	p, err := m.Parameters(in)
//	ci, err := m.Interval(p, 90)
//
// Intervals are analytic (inverse CDF). Sampling is provided for display only
// and draws from an injectable random source.
package pricing
