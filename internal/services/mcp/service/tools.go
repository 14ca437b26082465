package service

import (
	"github.com/louisbranch/rdap-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolRegistration pairs a tool definition with the typed registration call
// that binds its handler. Entries register in slice order.
type toolRegistration struct {
	tool *mcp.Tool
	add  func(*mcp.Server)
}

func newToolRegistration[I any](tool *mcp.Tool, handler mcp.ToolHandlerFor[I, any]) toolRegistration {
	return toolRegistration{
		tool: tool,
		add: func(server *mcp.Server) {
			mcp.AddTool(server, tool, handler)
		},
	}
}

// toolRegistrations lists every tool the bridge exposes.
func toolRegistrations(client domain.Lookuper) []toolRegistration {
	return []toolRegistration{
		newToolRegistration(domain.DomainLookupTool(), domain.DomainLookupHandler(client)),
		newToolRegistration(domain.IPLookupTool(), domain.IPLookupHandler(client)),
		newToolRegistration(domain.ASNLookupTool(), domain.ASNLookupHandler(client)),
	}
}

func toolNames(registrations []toolRegistration) map[string]struct{} {
	names := make(map[string]struct{}, len(registrations))
	for _, registration := range registrations {
		if registration.tool != nil {
			names[registration.tool.Name] = struct{}{}
		}
	}
	return names
}
