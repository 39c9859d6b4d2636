package model

import "math"

// ScenarioInput holds the slider values of a single price simulation request.
// Percentages are plain numbers (20 means 20%).
type ScenarioInput struct {
	CoalVariationPct    float64 `json:"coal_variation_pct"`
	GasVariationPct     float64 `json:"gas_variation_pct"`
	NuclearVariationPct float64 `json:"nuclear_variation_pct"`
	// CombinedFossilVariationPct is the single coal/gas slider of the compact dashboard.
	CombinedFossilVariationPct float64 `json:"combined_fossil_variation_pct"`

	SolarGrowthPct          float64 `json:"solar_growth_pct"`
	HydroGrowthPct          float64 `json:"hydro_growth_pct"`
	WindGrowthPct           float64 `json:"wind_growth_pct"`
	OtherRenewableGrowthPct float64 `json:"other_renewable_growth_pct"`

	ExternalShockPct   float64 `json:"external_shock_pct"`
	ConfidenceLevelPct float64 `json:"confidence_level_pct"`
	// PredictionYear is optional, zero means not set.
	PredictionYear int `json:"prediction_year,omitempty"`
}

// DistributionParameters describes the normal distribution of the simulated price in ₹/kWh.
type DistributionParameters struct {
	MeanPrice float64 `json:"mean_price"`
	StdDev    float64 `json:"std_dev"`
}

// ConfidenceInterval is a two-sided symmetric interval around the mean price.
type ConfidenceInterval struct {
	Level      float64 `json:"level"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// Bounded reports whether both bounds are finite. A 100% interval spans the
// whole real line.
func (c ConfidenceInterval) Bounded() bool {
	return !math.IsInf(c.LowerBound, 0) && !math.IsInf(c.UpperBound, 0)
}

// Width returns UpperBound - LowerBound.
func (c ConfidenceInterval) Width() float64 { return c.UpperBound - c.LowerBound }

// CurvePoint is one (price, density) pair of the probability density curve.
type CurvePoint struct {
	Price   float64 `json:"price"`
	Density float64 `json:"density"`
}

// SampleSummary holds empirical moments of a drawn sample. It is informative
// only; intervals are always computed analytically.
type SampleSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}
