// Package metrics defines the sink interface used to observe price
// simulations. Implementations such as the Prometheus and InfluxDB sinks live
// in infra/metrics and register themselves in the factory registry, so that
// NewMetricsSink can build them from configuration. Multiple configured sinks
// are combined into a MultiSink.
package metrics
