package rdap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	openrdap "github.com/openrdap/rdap"
	"github.com/openrdap/rdap/bootstrap"
)

// Config configures the RDAP client.
type Config struct {
	// UserAgent is sent with every RDAP and bootstrap request.
	UserAgent string
	// RequestTimeout bounds one HTTP exchange. Zero leaves queries unbounded.
	RequestTimeout time.Duration
	// BootstrapURL overrides the IANA bootstrap registry base URL.
	BootstrapURL string
	// Verbose logs the client's trace lines to the standard logger.
	Verbose bool
	// HTTPClient replaces the default HTTP client. RequestTimeout is ignored
	// when set.
	HTTPClient *http.Client
}

// Client queries RDAP servers found through IANA bootstrap. It is safe for
// concurrent use.
type Client struct {
	client *openrdap.Client
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	httpClient = withUserAgent(httpClient, cfg.UserAgent)

	boot := &bootstrap.Client{HTTP: httpClient}
	if raw := strings.TrimSpace(cfg.BootstrapURL); raw != "" {
		base, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse bootstrap url: %w", err)
		}
		if base.Scheme == "" || base.Host == "" {
			return nil, fmt.Errorf("parse bootstrap url: %q is not absolute", raw)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		boot.BaseURL = base
	}

	client := &openrdap.Client{
		HTTP:      httpClient,
		Bootstrap: boot,
		UserAgent: cfg.UserAgent,
	}
	if cfg.Verbose {
		client.Verbose = func(text string) {
			log.Printf("rdap %s", text)
		}
	}
	return &Client{client: client}, nil
}

// Domain looks up the registration record for a domain name.
func (c *Client) Domain(ctx context.Context, name string) (json.RawMessage, error) {
	return c.do(ctx, openrdap.NewDomainRequest(name))
}

// IP looks up the registration record for the network containing addr.
func (c *Client) IP(ctx context.Context, addr netip.Addr) (json.RawMessage, error) {
	return c.do(ctx, openrdap.NewIPRequest(net.IP(addr.AsSlice())))
}

// Autnum looks up the registration record for an autonomous system number.
func (c *Client) Autnum(ctx context.Context, asn uint32) (json.RawMessage, error) {
	return c.do(ctx, openrdap.NewAutnumRequest(asn))
}

// do runs req and returns the raw record. Errors from the client are returned
// as-is so callers see the client's own message.
func (c *Client) do(ctx context.Context, req *openrdap.Request) (json.RawMessage, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("rdap client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return recordJSON(resp)
}

// recordJSON prefers the body of the last successful HTTP exchange, which is
// the exact document the registry served. The decoded object is only
// re-encoded when no body was retained.
func recordJSON(resp *openrdap.Response) (json.RawMessage, error) {
	if resp == nil {
		return nil, errors.New("rdap response is missing")
	}
	for i := len(resp.HTTP) - 1; i >= 0; i-- {
		exchange := resp.HTTP[i]
		if exchange == nil || exchange.Error != nil || len(exchange.Body) == 0 {
			continue
		}
		var compacted bytes.Buffer
		if err := json.Compact(&compacted, exchange.Body); err != nil {
			continue
		}
		return json.RawMessage(compacted.Bytes()), nil
	}
	if resp.Object == nil {
		return nil, errors.New("rdap response is empty")
	}
	encoded, err := json.Marshal(resp.Object)
	if err != nil {
		return nil, fmt.Errorf("encode rdap record: %w", err)
	}
	return json.RawMessage(encoded), nil
}

// userAgentTransport sets User-Agent on requests that carry none. The
// bootstrap client has no user agent setting of its own.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}

// withUserAgent returns a copy of client whose transport stamps userAgent.
func withUserAgent(client *http.Client, userAgent string) *http.Client {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return client
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *client
	wrapped.Transport = &userAgentTransport{base: base, userAgent: userAgent}
	return &wrapped
}
