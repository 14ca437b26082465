package domain

import "github.com/google/jsonschema-go/jsonschema"

// DomainLookupSchema is the input schema for rdap_domain.
func DomainLookupSchema() *jsonschema.Schema {
	return objectSchema("domain", &jsonschema.Schema{
		Type:        "string",
		MinLength:   intPtr(1),
		Description: "domain name to look up, e.g. example.com",
	})
}

// IPLookupSchema is the input schema for rdap_ip. Literal syntax is enforced
// when the argument is decoded into IPAddress.
func IPLookupSchema() *jsonschema.Schema {
	return objectSchema("ip", &jsonschema.Schema{
		Type:        "string",
		MinLength:   intPtr(1),
		Description: "IPv4 or IPv6 address literal, e.g. 8.8.8.8 or 2001:4860:4860::8888",
	})
}

// ASNLookupSchema is the input schema for rdap_as.
func ASNLookupSchema() *jsonschema.Schema {
	return objectSchema("asn", &jsonschema.Schema{
		Type:        "string",
		Pattern:     asnPattern.String(),
		Description: "autonomous system number with AS prefix, e.g. AS15169",
	})
}

func objectSchema(field string, property *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{field: property},
		Required:   []string{field},
	}
}

func intPtr(v int) *int {
	return &v
}
