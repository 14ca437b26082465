// Package metrics provides operational metrics for MCP tool calls.
//
// # Metrics
//
//   - rdap_mcp_tool_calls_total{tool,outcome}: completed tool calls.
//   - rdap_mcp_tool_call_duration_seconds{tool}: tool call latency.
//
// Outcomes are "ok", "lookup_error" (the RDAP client failed and the caller got
// an error result) and "invalid" (arguments were rejected before dispatch).
//
// # Exposition
//
// Listen serves /metrics and /healthz on a dedicated address. The stdio
// protocol stream is never used for diagnostics.
package metrics
