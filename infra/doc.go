// Package infra groups the adapters behind the core interfaces: the zerolog
// logger, Prometheus and InfluxDB sinks, the Sentry monitor and the MQTT
// responder. Core packages never import infra.
package infra
