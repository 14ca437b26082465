// Package domain defines the RDAP lookup tools exposed over MCP.
//
// Each tool is a pair of a definition (name, description, input schema) and a
// handler. Arguments are validated while they are decoded into typed inputs
// (DomainName, IPAddress, ASNumber), so a handler only ever sees values that
// passed validation. Handlers make exactly one RDAP call and always answer
// with a well-formed tool result: the record JSON on success, "Error: ..." with
// IsError set on failure.
package domain
