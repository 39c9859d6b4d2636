package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/iexsim/core/metrics"
)

// PromSink records simulation events in Prometheus metrics.
type PromSink struct {
	simulations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	meanPrice   *prometheus.HistogramVec
	lastMean    *prometheus.GaugeVec
	lastStdDev  *prometheus.GaugeVec
	presets     prometheus.Gauge
}

// NewPromSink registers simulation metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iexsim_simulations_total",
			Help: "Total number of price simulations by preset and outcome",
		}, []string{"preset", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iexsim_simulation_duration_seconds",
			Help:    "Time spent computing a simulation",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"preset"}),
		meanPrice: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iexsim_mean_price_inr_per_kwh",
			Help:    "Distribution of computed mean prices",
			Buckets: prometheus.LinearBuckets(2, 0.5, 16),
		}, []string{"preset"}),
		lastMean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "iexsim_last_mean_price_inr_per_kwh",
			Help: "Mean price of the latest successful simulation",
		}, []string{"preset"}),
		lastStdDev: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "iexsim_last_std_dev_inr_per_kwh",
			Help: "Standard deviation of the latest successful simulation",
		}, []string{"preset"}),
		presets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "iexsim_presets",
			Help: "Number of model presets available",
		}),
	}
	var err error
	if s.simulations, err = register(reg, s.simulations); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.meanPrice, err = register(reg, s.meanPrice); err != nil {
		return nil, err
	}
	if s.lastMean, err = register(reg, s.lastMean); err != nil {
		return nil, err
	}
	if s.lastStdDev, err = register(reg, s.lastStdDev); err != nil {
		return nil, err
	}
	if s.presets, err = register(reg, s.presets); err != nil {
		return nil, err
	}
	return s, nil
}

// register reuses an existing collector when the metric is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSimulation counts the event and, on success, records the price distribution.
func (s *PromSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	s.simulations.WithLabelValues(ev.Preset, string(ev.Outcome)).Inc()
	s.duration.WithLabelValues(ev.Preset).Observe(ev.Duration.Seconds())
	if ev.Outcome != coremetrics.OutcomeOK {
		return nil
	}
	s.meanPrice.WithLabelValues(ev.Preset).Observe(ev.Params.MeanPrice)
	s.lastMean.WithLabelValues(ev.Preset).Set(ev.Params.MeanPrice)
	s.lastStdDev.WithLabelValues(ev.Preset).Set(ev.Params.StdDev)
	return nil
}

// RecordPresetCatalog sets the preset gauge.
func (s *PromSink) RecordPresetCatalog(names []string) error {
	s.presets.Set(float64(len(names)))
	return nil
}
