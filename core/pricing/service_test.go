package pricing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/iexsim/core/metrics"
	"github.com/kilianp07/iexsim/core/model"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

type recordPublisher struct {
	mu     sync.Mutex
	events []metrics.SimulationEvent
}

func (r *recordPublisher) Publish(ev metrics.SimulationEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func newService(t *testing.T, pub EventPublisher) *Service {
	t.Helper()
	svc, err := NewPresetService(MustPreset(PresetFull), pub, nopLogger{}, WithSeed(7))
	require.NoError(t, err)
	return svc
}

func TestService_Simulate(t *testing.T) {
	pub := &recordPublisher{}
	svc := newService(t, pub)
	in := scenario(20)
	in.PredictionYear = 2030

	sim, err := svc.Simulate(context.Background(), SimulationRequest{
		Scenario: in, Sample: true, Curve: true, CurvePoints: 50, Origin: "test",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sim.ID)
	assert.Equal(t, PresetFull, sim.Preset)
	assert.InDelta(t, 4.90, sim.Parameters.MeanPrice, 1e-9)
	assert.InDelta(t, 0.47, sim.Parameters.StdDev, 1e-9)
	assert.InDelta(t, 20, sim.RenewableAggregate, 1e-12)
	assert.InDelta(t, 4.90-0.47*1.6448536, sim.Interval.LowerBound, 1e-6)
	require.NotNil(t, sim.Accuracy)
	assert.Equal(t, 88.0, *sim.Accuracy)
	assert.Len(t, sim.Samples, DefaultSamples)
	require.NotNil(t, sim.SampleSummary)
	assert.Equal(t, DefaultSamples, sim.SampleSummary.Count)
	assert.Len(t, sim.Curve, 50)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, metrics.OutcomeOK, ev.Outcome)
	assert.Equal(t, sim.ID, ev.ID)
	assert.Equal(t, "test", ev.Origin)
	assert.Equal(t, DefaultSamples, ev.Samples)
}

func TestService_OptionalOutputsOff(t *testing.T) {
	svc := newService(t, nil)
	sim, err := svc.Simulate(context.Background(), SimulationRequest{Preset: PresetCoalGas, Scenario: model.ScenarioInput{
		SolarGrowthPct: 10, WindGrowthPct: 10, HydroGrowthPct: 10, ConfidenceLevelPct: 80, PredictionYear: 2040,
	}})
	require.NoError(t, err)
	assert.Equal(t, PresetCoalGas, sim.Preset)
	assert.Nil(t, sim.Accuracy)
	assert.Nil(t, sim.Samples)
	assert.Nil(t, sim.SampleSummary)
	assert.Nil(t, sim.Curve)
}

func TestService_Errors(t *testing.T) {
	pub := &recordPublisher{}
	svc := newService(t, pub)

	_, err := svc.Simulate(context.Background(), SimulationRequest{Preset: "missing", Scenario: scenario(20)})
	assert.ErrorIs(t, err, ErrUnknownPreset)

	in := scenario(20)
	in.CoalVariationPct = 999
	_, err = svc.Simulate(context.Background(), SimulationRequest{Scenario: in})
	assert.ErrorIs(t, err, ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Simulate(ctx, SimulationRequest{Scenario: scenario(20)})
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, pub.events, 3)
	assert.Equal(t, metrics.OutcomeInvalidInput, pub.events[0].Outcome)
	assert.Equal(t, "missing", pub.events[0].Preset)
	assert.Equal(t, metrics.OutcomeInvalidInput, pub.events[1].Outcome)
	assert.NotEmpty(t, pub.events[1].Error)
	assert.Equal(t, metrics.OutcomeError, pub.events[2].Outcome)
}

func TestService_DegenerateDefault(t *testing.T) {
	cfg := MustPreset(PresetFull)
	cfg.Name = "steep"
	cfg.VolatilityDampening = Dampening(3)
	svc, err := NewPresetService(cfg, nil, nopLogger{})
	require.NoError(t, err)
	assert.Equal(t, "steep", svc.DefaultPreset())

	_, err = svc.Simulate(context.Background(), SimulationRequest{Scenario: scenario(40)})
	assert.ErrorIs(t, err, ErrDegenerateDistribution)
	assert.Equal(t, metrics.OutcomeDegenerate, OutcomeOf(err))
}

func TestService_Catalogue(t *testing.T) {
	svc := newService(t, nil)
	cfgs := svc.Configs()
	require.Len(t, cfgs, 4)
	assert.Equal(t, PresetCoalGas, cfgs[0].Name)

	m, err := svc.Model("")
	require.NoError(t, err)
	assert.Equal(t, PresetFull, m.Name())

	_, err = NewService(nil, nil, nil, nopLogger{})
	assert.Error(t, err)
}

func TestService_ConcurrentUse(t *testing.T) {
	svc := newService(t, &recordPublisher{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sim, err := svc.Simulate(context.Background(), SimulationRequest{Scenario: scenario(30), Sample: true, SampleSize: 100})
			assert.NoError(t, err)
			assert.Len(t, sim.Samples, 100)
		}()
	}
	wg.Wait()
}
