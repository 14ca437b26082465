// Package service is the MCP server shell for the RDAP bridge.
//
// It owns the process-wide lifecycle: it registers the lookup tools from the
// domain package on an mcp.Server, connects the stdio transport, and runs a
// one-shot shutdown when the process is signalled or the client goes away.
// Business meaning stays in the domain package; this package only knows how to
// host it.
package service
