package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/iexsim/core/pricing"
	"github.com/kilianp07/iexsim/infra/logger"
	"github.com/kilianp07/iexsim/internal/report"
	"github.com/kilianp07/iexsim/pkg/export"
)

type simulateOptions struct {
	req        report.Request
	seed       uint64
	jsonOut    bool
	samplesOut string
}

func newSimulateCmd(load configLoader) *cobra.Command {
	var o simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one price simulation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger.SetLevel(cfg.Logging.Level)
			def, err := cfg.Model.Resolve()
			if err != nil {
				return err
			}
			opts := cfg.Model.Options()
			if o.seed != 0 {
				opts = []pricing.Option{pricing.WithSeed(o.seed)}
			}
			svc, err := pricing.NewPresetService(def, nil, logger.New("simulate"), opts...)
			if err != nil {
				return err
			}
			if o.samplesOut != "" && o.req.Samples == 0 {
				o.req.Samples = def.DefaultSamples
			}
			sim, err := svc.Simulate(cmd.Context(), o.req.SimulationRequest("cli"))
			if err != nil {
				return err
			}
			if o.samplesOut != "" {
				if err := export.WriteFile(o.samplesOut, sim.Samples); err != nil {
					return fmt.Errorf("write samples: %w", err)
				}
			}
			out := report.FromSimulation(sim)
			if o.jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return printSimulation(cmd.OutOrStdout(), out)
		},
	}
	f := cmd.Flags()
	in := &o.req.Scenario
	f.StringVar(&o.req.Preset, "preset", "", "model preset (default from config)")
	f.Float64Var(&in.CoalVariationPct, "coal", 0, "coal price variation in %")
	f.Float64Var(&in.GasVariationPct, "gas", 0, "gas price variation in %")
	f.Float64Var(&in.NuclearVariationPct, "nuclear", 0, "nuclear price variation in %")
	f.Float64Var(&in.CombinedFossilVariationPct, "coal-gas", 0, "combined coal/gas price variation in %")
	f.Float64Var(&in.SolarGrowthPct, "solar", 20, "solar growth in %")
	f.Float64Var(&in.HydroGrowthPct, "hydro", 20, "hydro growth in %")
	f.Float64Var(&in.WindGrowthPct, "wind", 20, "wind growth in %")
	f.Float64Var(&in.OtherRenewableGrowthPct, "other", 20, "other renewable growth in %")
	f.Float64Var(&in.ExternalShockPct, "shock", 0, "external shock in %")
	f.Float64Var(&in.ConfidenceLevelPct, "confidence", 90, "confidence level in %")
	f.IntVar(&in.PredictionYear, "year", 0, "prediction year (0 to skip the accuracy metric)")
	f.IntVar(&o.req.Samples, "samples", 0, "number of prices to draw")
	f.IntVar(&o.req.CurvePoints, "curve-points", 0, "number of density curve points to include")
	f.Uint64Var(&o.seed, "seed", 0, "sampling seed (0 for random)")
	f.BoolVar(&o.jsonOut, "json", false, "print the result as JSON")
	f.StringVar(&o.samplesOut, "samples-out", "", "write drawn samples to a .csv or .json file")
	return cmd
}

func printSimulation(w io.Writer, s report.Simulation) error {
	lines := []struct{ k, v string }{
		{"Preset", s.Preset},
		{"Mean price", "₹" + s.Display.MeanPrice + "/kWh"},
		{"Std deviation", "₹" + s.Display.StdDev + "/kWh"},
		{fmt.Sprintf("%g%% interval", s.Interval.Level), "₹" + s.Display.LowerBound + " to ₹" + s.Display.UpperBound + "/kWh"},
	}
	if s.Display.Accuracy != "" {
		lines = append(lines, struct{ k, v string }{"Prediction accuracy", s.Display.Accuracy})
	}
	if s.SampleSummary != nil {
		lines = append(lines, struct{ k, v string }{"Sample mean", fmt.Sprintf("₹%s/kWh (n=%d)", report.Money(s.SampleSummary.Mean), s.SampleSummary.Count)})
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-21s %s\n", l.k+":", l.v); err != nil {
			return err
		}
	}
	return nil
}
