// Package id generates invocation identifiers used to correlate tool-call
// logs and spans.
//
// Identifiers are UUIDv4 bytes encoded as base32 (RFC 4648) with no padding.
// The resulting strings are 26 characters long and lowercase.
package id
