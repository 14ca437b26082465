package domain

import (
	"context"
	"encoding/json"
	"net/netip"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// DomainLookupToolName is the MCP tool name for domain lookups.
	DomainLookupToolName = "rdap_domain"
	// IPLookupToolName is the MCP tool name for IP lookups.
	IPLookupToolName = "rdap_ip"
	// ASNLookupToolName is the MCP tool name for AS number lookups.
	ASNLookupToolName = "rdap_as"
)

const (
	domainLookupPrefix = "Domain lookup for:"
	ipLookupPrefix     = "IP lookup for:"
	asnLookupPrefix    = "ASN lookup for:"
)

// codeInvalidParams is the JSON-RPC error code for rejected arguments.
const codeInvalidParams = -32602

// DomainLookuper resolves domain registration records.
type DomainLookuper interface {
	Domain(ctx context.Context, name string) (json.RawMessage, error)
}

// IPLookuper resolves IP network registration records.
type IPLookuper interface {
	IP(ctx context.Context, addr netip.Addr) (json.RawMessage, error)
}

// AutnumLookuper resolves autonomous system registration records.
type AutnumLookuper interface {
	Autnum(ctx context.Context, asn uint32) (json.RawMessage, error)
}

// Lookuper resolves every record kind the bridge exposes.
type Lookuper interface {
	DomainLookuper
	IPLookuper
	AutnumLookuper
}

// DomainLookupInput represents the MCP tool input for a domain lookup.
type DomainLookupInput struct {
	Domain DomainName `json:"domain" jsonschema:"domain name to look up"`
}

// IPLookupInput represents the MCP tool input for an IP lookup.
type IPLookupInput struct {
	IP IPAddress `json:"ip" jsonschema:"IPv4 or IPv6 address literal"`
}

// ASNLookupInput represents the MCP tool input for an AS number lookup.
type ASNLookupInput struct {
	ASN ASNumber `json:"asn" jsonschema:"autonomous system number with AS prefix"`
}

// DomainLookupTool defines the MCP tool schema for domain lookups.
func DomainLookupTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        DomainLookupToolName,
		Description: "Looks up information about the domain",
		InputSchema: DomainLookupSchema(),
	}
}

// IPLookupTool defines the MCP tool schema for IP lookups.
func IPLookupTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        IPLookupToolName,
		Description: "Looks up information about the IP",
		InputSchema: IPLookupSchema(),
	}
}

// ASNLookupTool defines the MCP tool schema for AS number lookups.
func ASNLookupTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ASNLookupToolName,
		Description: "Looks up information about the Autonomous System Number (ASN)",
		InputSchema: ASNLookupSchema(),
	}
}

// DomainLookupHandler executes an RDAP domain lookup.
func DomainLookupHandler(client DomainLookuper) mcp.ToolHandlerFor[DomainLookupInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DomainLookupInput) (*mcp.CallToolResult, any, error) {
		if input.Domain == "" {
			return nil, nil, invalidParams("domain is required")
		}
		record, err := client.Domain(ctx, string(input.Domain))
		return LookupResult(domainLookupPrefix, record, err), nil, nil
	}
}

// IPLookupHandler executes an RDAP IP network lookup.
func IPLookupHandler(client IPLookuper) mcp.ToolHandlerFor[IPLookupInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input IPLookupInput) (*mcp.CallToolResult, any, error) {
		if !input.IP.IsValid() {
			return nil, nil, invalidParams("ip is required")
		}
		record, err := client.IP(ctx, input.IP.Addr())
		return LookupResult(ipLookupPrefix, record, err), nil, nil
	}
}

// ASNLookupHandler executes an RDAP autnum lookup.
func ASNLookupHandler(client AutnumLookuper) mcp.ToolHandlerFor[ASNLookupInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ASNLookupInput) (*mcp.CallToolResult, any, error) {
		if !input.ASN.IsValid() {
			return nil, nil, invalidParams("asn is required")
		}
		record, err := client.Autnum(ctx, input.ASN.Uint32())
		return LookupResult(asnLookupPrefix, record, err), nil, nil
	}
}

// LookupResult renders a lookup outcome as a single text block. A lookup
// failure becomes an error result, not a Go error.
func LookupResult(prefix string, record json.RawMessage, err error) *mcp.CallToolResult {
	if err != nil {
		return ErrorResult(err)
	}
	if len(record) == 0 {
		record = json.RawMessage("null")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: prefix + " \n" + string(record)}},
	}
}

// ErrorResult renders err as an MCP tool error.
func ErrorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}
}

func invalidParams(message string) error {
	return &jsonrpc.Error{Code: codeInvalidParams, Message: message}
}
