package pricing

import "github.com/kilianp07/iexsim/core/model"

// Validate checks every field of the scenario the model uses, including the
// confidence level and, when set, the prediction year. Fields of sources the
// model does not use are only required to be finite.
func (m *Model) Validate(in model.ScenarioInput) error {
	if err := m.validateDrivers(in); err != nil {
		return err
	}
	rng := m.cfg.Ranges
	if !rng.Confidence.Contains(in.ConfidenceLevelPct) {
		return &InputError{Field: "confidence_level_pct", Value: in.ConfidenceLevelPct, Range: rng.Confidence}
	}
	if in.PredictionYear != 0 && !rng.Year.Contains(float64(in.PredictionYear)) {
		return &InputError{Field: "prediction_year", Value: float64(in.PredictionYear), Range: rng.Year}
	}
	return nil
}

func (m *Model) validateDrivers(in model.ScenarioInput) error {
	rng := m.cfg.Ranges
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"coal_variation_pct", in.CoalVariationPct},
		{"gas_variation_pct", in.GasVariationPct},
		{"nuclear_variation_pct", in.NuclearVariationPct},
		{"combined_fossil_variation_pct", in.CombinedFossilVariationPct},
		{"solar_growth_pct", in.SolarGrowthPct},
		{"hydro_growth_pct", in.HydroGrowthPct},
		{"wind_growth_pct", in.WindGrowthPct},
		{"other_renewable_growth_pct", in.OtherRenewableGrowthPct},
		{"external_shock_pct", in.ExternalShockPct},
		{"confidence_level_pct", in.ConfidenceLevelPct},
	} {
		if !finite(f.v) {
			return &InputError{Field: f.name, Value: f.v}
		}
	}
	for _, s := range m.cfg.FossilSources {
		if v := fossilValue(in, s); !rng.Fossil.Contains(v) {
			return &InputError{Field: fossilField(s), Value: v, Range: rng.Fossil}
		}
	}
	for _, r := range m.cfg.Renewables {
		if v := renewableValue(in, r); !rng.Renewable.Contains(v) {
			return &InputError{Field: renewableField(r), Value: v, Range: rng.Renewable}
		}
	}
	if m.cfg.ExternalShock && !rng.Shock.Contains(in.ExternalShockPct) {
		return &InputError{Field: "external_shock_pct", Value: in.ExternalShockPct, Range: rng.Shock}
	}
	return nil
}

func fossilField(s FossilSource) string {
	if s == FossilCombined {
		return "combined_fossil_variation_pct"
	}
	return string(s) + "_variation_pct"
}

func renewableField(r RenewableSource) string {
	if r == RenewableOther {
		return "other_renewable_growth_pct"
	}
	return string(r) + "_growth_pct"
}
