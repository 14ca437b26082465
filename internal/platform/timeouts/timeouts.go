// Package timeouts defines shared timeout constants so the durations used at
// process boundaries stay discoverable in one place.
package timeouts

import "time"

// ReadHeader limits how long the diagnostics HTTP listener waits for request
// headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the diagnostics HTTP listener waits for in-flight
// scrapes during shutdown.
const Shutdown = 5 * time.Second

// TelemetryFlush caps how long pending spans may take to flush at exit.
const TelemetryFlush = 5 * time.Second

// SessionClose caps how long MCP shutdown waits for the session to close after
// in-flight tool calls are cancelled.
const SessionClose = 5 * time.Second
