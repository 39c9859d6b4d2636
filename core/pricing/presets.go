package pricing

import (
	"fmt"
	"sort"
)

// Preset names of the dashboard variants.
const (
	PresetFull     = "full"
	PresetHorizon  = "horizon"
	PresetCoalGas  = "coal-gas"
	PresetCombined = "combined"
)

var presets = map[string]func() Config{
	PresetFull: func() Config {
		acc := HalfPointDecay()
		return Config{
			Name:          PresetFull,
			Description:   "coal, gas and nuclear, four renewables, external shock, accuracy floored at 50%",
			FossilSources: []FossilSource{FossilCoal, FossilGas, FossilNuclear},
			FuelDivisor:   300,
			Renewables:    []RenewableSource{RenewableSolar, RenewableHydro, RenewableWind, RenewableOther},
			ExternalShock: true,
			Accuracy:      &acc,
		}
	},
	PresetHorizon: func() Config {
		acc := TenthPointDecay()
		return Config{
			Name:          PresetHorizon,
			Description:   "coal, gas and nuclear, four renewables, no shock, accuracy without floor",
			FossilSources: []FossilSource{FossilCoal, FossilGas, FossilNuclear},
			FuelDivisor:   300,
			Renewables:    []RenewableSource{RenewableSolar, RenewableHydro, RenewableWind, RenewableOther},
			Accuracy:      &acc,
		}
	},
	PresetCoalGas: func() Config {
		return Config{
			Name:          PresetCoalGas,
			Description:   "coal and gas, solar, wind and hydro",
			FossilSources: []FossilSource{FossilCoal, FossilGas},
			FuelDivisor:   200,
			Renewables:    []RenewableSource{RenewableSolar, RenewableWind, RenewableHydro},
		}
	},
	PresetCombined: func() Config {
		return Config{
			Name:          PresetCombined,
			Description:   "single coal/gas slider, solar and wind",
			FossilSources: []FossilSource{FossilCombined},
			FuelDivisor:   100,
			Renewables:    []RenewableSource{RenewableSolar, RenewableWind},
		}
	},
}

// Preset returns the named preset with defaults applied.
func Preset(name string) (Config, error) {
	f, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	cfg := f()
	cfg.SetDefaults()
	return cfg, nil
}

// MustPreset is like Preset but panics on unknown names.
func MustPreset(name string) Config {
	cfg, err := Preset(name)
	if err != nil {
		panic(err)
	}
	return cfg
}

// PresetNames returns the preset names in lexical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Presets returns every preset with defaults applied, ordered by name.
func Presets() []Config {
	names := PresetNames()
	out := make([]Config, 0, len(names))
	for _, n := range names {
		out = append(out, MustPreset(n))
	}
	return out
}
