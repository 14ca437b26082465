// Package telemetry groups the bridge's operational observability.
//
// Tracing is configured by internal/platform/otel. Counters and latency
// histograms for tool calls live in telemetry/metrics and are exposed in
// Prometheus format when a diagnostics address is configured.
//
// Neither concern ever records RDAP payloads or caller arguments.
package telemetry
