// Package metrics defines the observability hooks used by the engine, the HTTP
// server and the static exporter. The Prometheus implementation is served at
// /metrics; NoopRecorder is the default when nothing is injected.
package metrics
