package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strconv"
)

// asnPattern matches an AS number written with its mandatory "AS" prefix.
var asnPattern = regexp.MustCompile(`^[Aa][Ss][0-9]+$`)

// DomainName is a validated, non-empty domain query. It reaches the RDAP
// client exactly as the caller sent it.
type DomainName string

// ParseDomainName validates a raw domain argument.
func ParseDomainName(raw string) (DomainName, error) {
	if raw == "" {
		return "", errors.New("domain must not be empty")
	}
	return DomainName(raw), nil
}

// UnmarshalJSON decodes and validates a domain argument.
func (d *DomainName) UnmarshalJSON(data []byte) error {
	raw, err := decodeString(data, "domain")
	if err != nil {
		return err
	}
	parsed, err := ParseDomainName(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IPAddress is a validated IPv4 or IPv6 literal.
type IPAddress struct {
	addr netip.Addr
}

// ParseIPAddress validates a raw IP argument. Zoned IPv6 addresses are
// rejected.
func ParseIPAddress(raw string) (IPAddress, error) {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return IPAddress{}, fmt.Errorf("ip must be a valid IPv4 or IPv6 address: %q", raw)
	}
	if addr.Zone() != "" {
		return IPAddress{}, fmt.Errorf("ip must not carry a zone: %q", raw)
	}
	return IPAddress{addr: addr}, nil
}

// Addr returns the parsed address.
func (a IPAddress) Addr() netip.Addr {
	return a.addr
}

// IsValid reports whether a was produced by ParseIPAddress.
func (a IPAddress) IsValid() bool {
	return a.addr.IsValid()
}

func (a IPAddress) String() string {
	return a.addr.String()
}

// UnmarshalJSON decodes and validates an IP argument.
func (a *IPAddress) UnmarshalJSON(data []byte) error {
	raw, err := decodeString(data, "ip")
	if err != nil {
		return err
	}
	parsed, err := ParseIPAddress(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ASNumber is a validated autonomous system number parsed from "AS<digits>".
type ASNumber struct {
	value uint32
	valid bool
}

// ParseASNumber validates a raw ASN argument. The "AS" prefix is mandatory
// and matched case-insensitively; bare digits are rejected.
func ParseASNumber(raw string) (ASNumber, error) {
	if !asnPattern.MatchString(raw) {
		return ASNumber{}, fmt.Errorf("asn must match AS<digits>: %q", raw)
	}
	value, err := strconv.ParseUint(raw[2:], 10, 32)
	if err != nil {
		return ASNumber{}, fmt.Errorf("asn %q is outside the 32-bit AS number range", raw)
	}
	return ASNumber{value: uint32(value), valid: true}, nil
}

// Uint32 returns the numeric AS value.
func (n ASNumber) Uint32() uint32 {
	return n.value
}

// IsValid reports whether n was produced by ParseASNumber.
func (n ASNumber) IsValid() bool {
	return n.valid
}

func (n ASNumber) String() string {
	return "AS" + strconv.FormatUint(uint64(n.value), 10)
}

// UnmarshalJSON decodes and validates an ASN argument.
func (n *ASNumber) UnmarshalJSON(data []byte) error {
	raw, err := decodeString(data, "asn")
	if err != nil {
		return err
	}
	parsed, err := ParseASNumber(raw)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// decodeString decodes a JSON string, rejecting null and non-string values.
func decodeString(data []byte, field string) (string, error) {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return "", fmt.Errorf("%s must be a string", field)
	}
	return *raw, nil
}
