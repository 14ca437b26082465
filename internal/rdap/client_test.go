package rdap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"testing"
	"time"

	openrdap "github.com/openrdap/rdap"
)

// registry fakes both the IANA bootstrap files and one RDAP server behind them.
type registry struct {
	mu       sync.Mutex
	requests []string
	agents   []string
	records  map[string]string
}

func newRegistry(t *testing.T, records map[string]string) (*registry, *httptest.Server) {
	t.Helper()
	reg := &registry{records: records}
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reg.mu.Lock()
		reg.requests = append(reg.requests, r.URL.Path)
		reg.agents = append(reg.agents, r.UserAgent())
		reg.mu.Unlock()

		base := server.URL + "/rdap/"
		switch r.URL.Path {
		case "/bootstrap/dns.json":
			writeBootstrap(w, `["test","example"]`, base)
			return
		case "/bootstrap/ipv4.json":
			writeBootstrap(w, `["192.0.2.0/24"]`, base)
			return
		case "/bootstrap/ipv6.json":
			writeBootstrap(w, `["2001:db8::/32"]`, base)
			return
		case "/bootstrap/asn.json":
			writeBootstrap(w, `["64496-64511"]`, base)
			return
		}

		body, ok := reg.records[strings.TrimPrefix(r.URL.Path, "/rdap/")]
		if !ok {
			w.Header().Set("Content-Type", "application/rdap+json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorCode":404,"title":"Not Found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/rdap+json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return reg, server
}

func writeBootstrap(w http.ResponseWriter, entries, base string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"version":"1.0","publication":"2024-01-01T00:00:00Z","services":[[%s,[%q]]]}`, entries, base)
}

func (r *registry) lookups() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, path := range r.requests {
		if strings.HasPrefix(path, "/rdap/") {
			out = append(out, path)
		}
	}
	return out
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := New(Config{
		UserAgent:      "rdap-mcp-test",
		RequestTimeout: 5 * time.Second,
		BootstrapURL:   server.URL + "/bootstrap",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientLookups(t *testing.T) {
	records := map[string]string{
		"domain/example.test": `{
			"objectClassName": "domain",
			"ldhName": "example.test",
			"x_registry_extension": {"kept": true}
		}`,
		"ip/192.0.2.1":   `{"objectClassName":"ip network","startAddress":"192.0.2.0"}`,
		"ip/2001:db8::1": `{"objectClassName":"ip network","startAddress":"2001:db8::"}`,
		"autnum/64500":   `{"objectClassName":"autnum","startAutnum":64500}`,
	}
	reg, server := newRegistry(t, records)
	client := newTestClient(t, server)
	ctx := context.Background()

	tests := []struct {
		name   string
		lookup func() (json.RawMessage, error)
		want   string
	}{
		{
			name:   "domain",
			lookup: func() (json.RawMessage, error) { return client.Domain(ctx, "example.test") },
			want:   `{"objectClassName":"domain","ldhName":"example.test","x_registry_extension":{"kept":true}}`,
		},
		{
			name:   "ipv4",
			lookup: func() (json.RawMessage, error) { return client.IP(ctx, netip.MustParseAddr("192.0.2.1")) },
			want:   `{"objectClassName":"ip network","startAddress":"192.0.2.0"}`,
		},
		{
			name:   "ipv6",
			lookup: func() (json.RawMessage, error) { return client.IP(ctx, netip.MustParseAddr("2001:db8::1")) },
			want:   `{"objectClassName":"ip network","startAddress":"2001:db8::"}`,
		},
		{
			name:   "autnum",
			lookup: func() (json.RawMessage, error) { return client.Autnum(ctx, 64500) },
			want:   `{"objectClassName":"autnum","startAutnum":64500}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("record = %s, want %s", got, tt.want)
			}
		})
	}

	for _, agent := range reg.agents {
		if agent != "rdap-mcp-test" {
			t.Fatalf("expected configured user agent on every request, got %q", agent)
		}
	}
}

func TestClientSendsUserAgentToBootstrap(t *testing.T) {
	reg, server := newRegistry(t, map[string]string{"autnum/64500": `{"objectClassName":"autnum"}`})
	client := newTestClient(t, server)

	if _, err := client.Autnum(context.Background(), 64500); err != nil {
		t.Fatalf("lookup: %v", err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	sawBootstrap := false
	for i, path := range reg.requests {
		if !strings.HasPrefix(path, "/bootstrap/") {
			continue
		}
		sawBootstrap = true
		if reg.agents[i] != "rdap-mcp-test" {
			t.Fatalf("bootstrap request %s sent user agent %q", path, reg.agents[i])
		}
	}
	if !sawBootstrap {
		t.Fatal("expected a bootstrap request")
	}
}

func TestWithUserAgent(t *testing.T) {
	agents := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.UserAgent()
	}))
	t.Cleanup(server.Close)

	tests := []struct {
		name      string
		userAgent string
		header    string
		want      string
	}{
		{name: "stamps missing header", userAgent: "rdap-mcp/0.1.0", want: "rdap-mcp/0.1.0"},
		{name: "keeps explicit header", userAgent: "rdap-mcp/0.1.0", header: "caller/1", want: "caller/1"},
		{name: "empty agent leaves default", userAgent: " ", want: "Go-http-client/1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &http.Client{}
			client := withUserAgent(base, tt.userAgent)
			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			if tt.header != "" {
				req.Header.Set("User-Agent", tt.header)
			}
			resp, err := client.Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			_ = resp.Body.Close()
			if got := <-agents; got != tt.want {
				t.Fatalf("user agent = %q, want %q", got, tt.want)
			}
			if base.Transport != nil {
				t.Fatal("expected the caller's client to stay untouched")
			}
		})
	}
}

func TestClientNotFoundReturnsError(t *testing.T) {
	_, server := newRegistry(t, map[string]string{})
	client := newTestClient(t, server)

	record, err := client.Domain(context.Background(), "missing.test")
	if err == nil {
		t.Fatalf("expected error, got record %s", record)
	}
	if record != nil {
		t.Fatalf("expected nil record on error, got %s", record)
	}
}

func TestClientNoBootstrapMatchReturnsError(t *testing.T) {
	_, server := newRegistry(t, map[string]string{})
	client := newTestClient(t, server)

	if _, err := client.Autnum(context.Background(), 15169); err == nil {
		t.Fatal("expected error for AS number outside every bootstrap range")
	}
}

func TestClientDoesNotCacheRecords(t *testing.T) {
	reg, server := newRegistry(t, map[string]string{
		"domain/example.test": `{"objectClassName":"domain"}`,
	})
	client := newTestClient(t, server)

	for i := 0; i < 2; i++ {
		if _, err := client.Domain(context.Background(), "example.test"); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	if got := len(reg.lookups()); got != 2 {
		t.Fatalf("expected 2 RDAP requests, got %d", got)
	}
}

func TestClientHonoursContextCancellation(t *testing.T) {
	_, server := newRegistry(t, map[string]string{
		"domain/example.test": `{"objectClassName":"domain"}`,
	})
	client := newTestClient(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Domain(ctx, "example.test"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewRejectsRelativeBootstrapURL(t *testing.T) {
	if _, err := New(Config{BootstrapURL: "bootstrap/"}); err == nil {
		t.Fatal("expected error for relative bootstrap url")
	}
}

func TestNilClientReturnsError(t *testing.T) {
	var client *Client
	if _, err := client.Domain(context.Background(), "example.test"); err == nil {
		t.Fatal("expected error from nil client")
	}
}

func TestRecordJSON(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		if _, err := recordJSON(nil); err == nil {
			t.Fatal("expected error for nil response")
		}
	})

	t.Run("empty response", func(t *testing.T) {
		if _, err := recordJSON(&openrdap.Response{}); err == nil {
			t.Fatal("expected error for empty response")
		}
	})

	t.Run("prefers last successful body", func(t *testing.T) {
		resp := &openrdap.Response{
			HTTP: []*openrdap.HTTPResponse{
				{Body: []byte(`{"first": 1}`)},
				{Body: []byte(`{"second": 2}`)},
				{Body: []byte(`{"failed": 3}`), Error: errors.New("status 500")},
			},
		}
		got, err := recordJSON(resp)
		if err != nil {
			t.Fatalf("record json: %v", err)
		}
		if string(got) != `{"second":2}` {
			t.Fatalf("record = %s, want second body", got)
		}
	})

	t.Run("falls back to decoded object", func(t *testing.T) {
		resp := &openrdap.Response{
			Object: &openrdap.Domain{LDHName: "example.test"},
			HTTP:   []*openrdap.HTTPResponse{{Body: []byte("not json")}},
		}
		got, err := recordJSON(resp)
		if err != nil {
			t.Fatalf("record json: %v", err)
		}
		if !strings.Contains(string(got), "example.test") {
			t.Fatalf("expected encoded object, got %s", got)
		}
	})
}
