// Package app wires the simulation service to its transports and sinks.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kilianp07/iexsim/api/simulation"
	"github.com/kilianp07/iexsim/config"
	coremetrics "github.com/kilianp07/iexsim/core/metrics"
	"github.com/kilianp07/iexsim/core/monitoring"
	"github.com/kilianp07/iexsim/core/pricing"
	"github.com/kilianp07/iexsim/infra/logger"
	"github.com/kilianp07/iexsim/infra/metrics"
	inframon "github.com/kilianp07/iexsim/infra/monitoring"
	"github.com/kilianp07/iexsim/infra/mqtt"
	"github.com/kilianp07/iexsim/internal/eventbus"
)

// Service orchestrates the simulation service, its HTTP API, metrics and the
// optional MQTT responder.
type Service struct {
	Pricing *pricing.Service

	cfg  *config.Config
	bus  *eventbus.TypedBus[coremetrics.SimulationEvent]
	sink coremetrics.MetricsSink
	mqtt *mqtt.PahoClient
	log  logger.Logger

	closeOnce sync.Once
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("service")

	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics %w (known types: %s)", err, strings.Join(coremetrics.SinkTypes(), ", "))
	}

	def, err := cfg.Model.Resolve()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	bus := eventbus.NewTyped[coremetrics.SimulationEvent]()
	svc, err := pricing.NewPresetService(def, bus, logger.New("pricing"), cfg.Model.Options()...)
	if err != nil {
		return nil, fmt.Errorf("pricing service: %w", err)
	}
	if r, ok := sink.(coremetrics.PresetCatalogRecorder); ok {
		names := make([]string, 0)
		for _, c := range svc.Configs() {
			names = append(names, c.Name)
		}
		if err := r.RecordPresetCatalog(names); err != nil {
			logg.Warnf("record preset catalog: %v", err)
		}
	}

	s := &Service{Pricing: svc, cfg: cfg, bus: bus, sink: sink, log: logg}
	if cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		s.mqtt = client
	}
	return s, nil
}

// Run starts the collector, the API, the metrics endpoint and the MQTT
// responder, and blocks until the context is cancelled or a server fails.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := metrics.StartEventCollector(ctx, s.bus, s.sink)
	errs := make(chan error, 2)

	if !s.cfg.Server.Disabled {
		go func() {
			err := simulation.Serve(ctx, simulation.ServerConfig{
				Address:        s.cfg.Server.Address,
				AllowedOrigins: s.cfg.Server.AllowedOrigins,
				Release:        s.cfg.Server.Release,
			}, s.Pricing, logger.New("api"))
			if err != nil {
				errs <- fmt.Errorf("api server: %w", err)
			}
		}()
	}
	if addr := s.cfg.Metrics.PrometheusAddress; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				errs <- fmt.Errorf("prom server: %w", err)
			}
		}()
	}
	if s.mqtt != nil {
		responder := mqtt.NewResponder(s.cfg.MQTT, s.Pricing, s.mqtt, logger.New("mqtt_responder"))
		if err := responder.Start(ctx, s.mqtt); err != nil {
			return err
		}
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errs:
		monitoring.CaptureException(err, map[string]string{"module": "app"})
		cancel()
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warnf("metrics collector did not stop in time")
	}
	return err
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		if s.mqtt != nil {
			s.mqtt.Disconnect()
		}
		s.bus.Close()
		monitoring.Flush(2 * time.Second)
	})
	return nil
}
