package metrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/louisbranch/rdap-mcp/internal/platform/timeouts"
)

// Listener serves the diagnostics handler on a dedicated address.
type Listener struct {
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

// Listen binds addr synchronously so bind failures surface at startup, then
// serves handler in the background.
func Listen(addr string, handler http.Handler) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen diagnostics on %s: %w", addr, err)
	}
	l := &Listener{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		listener: ln,
		done:     make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("diagnostics listener stopped: %v", err)
		}
	}()
	return l, nil
}

// Addr reports the bound address.
func (l *Listener) Addr() string {
	if l == nil || l.listener == nil {
		return ""
	}
	return l.listener.Addr().String()
}

// Close stops the listener, waiting up to timeouts.Shutdown for in-flight
// requests.
func (l *Listener) Close() error {
	if l == nil || l.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	err := l.server.Shutdown(ctx)
	<-l.done
	return err
}
