// Package rdap binds the MCP lookup handlers to the openrdap client.
//
// Records are returned as the registry's own JSON document, compacted but
// otherwise untouched, so no field the registry sent is ever dropped.
package rdap
