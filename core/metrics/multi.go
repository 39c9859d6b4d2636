package metrics

// MultiSink fans out simulation events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSimulation forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSimulation(ev SimulationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSimulation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPresetCatalog forwards the catalogue to sinks supporting it.
func (m *MultiSink) RecordPresetCatalog(names []string) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PresetCatalogRecorder); ok {
			if err := rec.RecordPresetCatalog(names); err != nil {
				return err
			}
		}
	}
	return nil
}
