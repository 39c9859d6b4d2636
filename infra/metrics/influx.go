package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/iexsim/core/metrics"
	"github.com/kilianp07/iexsim/infra/logger"
)

// InfluxSink writes simulation events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSimulation writes one price_simulation point per event.
func (s *InfluxSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, simulationPoint(ev))
}

// RecordPresetCatalog writes the list of available presets.
func (s *InfluxSink) RecordPresetCatalog(names []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("preset_catalog").
		AddTag("component", "pricing").
		AddField("count", len(names)).
		AddField("presets", strings.Join(names, ",")).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func simulationPoint(ev coremetrics.SimulationEvent) *write.Point {
	p := write.NewPointWithMeasurement("price_simulation").
		AddTag("preset", ev.Preset).
		AddTag("outcome", string(ev.Outcome))
	if ev.Origin != "" {
		p = p.AddTag("origin", ev.Origin)
	}
	p = p.AddField("duration_ms", round3(ev.Duration.Seconds()*1000))
	if ev.Outcome == coremetrics.OutcomeOK {
		p = p.AddField("mean_price", round3(ev.Params.MeanPrice)).
			AddField("std_dev", round3(ev.Params.StdDev)).
			AddField("confidence_level", round3(ev.Interval.Level)).
			AddField("samples", ev.Samples)
		if ev.Interval.Bounded() {
			p = p.AddField("lower_bound", round3(ev.Interval.LowerBound)).
				AddField("upper_bound", round3(ev.Interval.UpperBound))
		}
		if ev.Accuracy != nil {
			p = p.AddField("accuracy", round3(*ev.Accuracy))
		}
	}
	if ev.Error != "" {
		p = p.AddField("error", ev.Error)
	}
	return p.SetTime(ev.Time)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
