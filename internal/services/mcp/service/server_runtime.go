package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	readyMessage       = "RDAP MCP server running on stdio"
	disconnectedReason = "client disconnected"
)

// Run serves the RDAP tools on stdio until a signal arrives, ctx ends, or the
// client disconnects. A clean stop returns nil. Startup failures wrap
// ErrStartup.
func Run(ctx context.Context, cfg Config, signals <-chan os.Signal) error {
	return runWithTransport(ctx, cfg, &mcp.StdioTransport{}, signals)
}

func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport, signals <-chan os.Signal) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport, signals)
}

// serveWithTransport connects transport and blocks until the server shuts
// down. The first of a signal, ctx cancellation, or session end triggers the
// shutdown sequence; in-flight tool calls are cancelled, not awaited.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport, signals <-chan os.Signal) error {
	if s == nil || s.mcpServer == nil {
		return startupError(errors.New("MCP server is not configured"))
	}
	if transport == nil {
		s.lifecycle.fail()
		return startupError(errors.New("transport is required"))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := s.mcpServer.Connect(ctx, transport, nil)
	if err != nil {
		s.lifecycle.fail()
		return startupError(fmt.Errorf("connect transport: %w", err))
	}
	if !s.lifecycle.advance(StateRegistering, StateConnected) {
		_ = session.Close()
		return startupError(fmt.Errorf("server lifecycle is %s", s.lifecycle.State()))
	}
	log.Print(readyMessage)

	sessionDone := make(chan error, 1)
	go func() {
		sessionDone <- session.Wait()
	}()

	ctxDone := ctx.Done()
	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				signals = nil
				continue
			}
			s.lifecycle.shutdown(sig.String(), s.closeSession(session))
			return nil
		case <-ctxDone:
			s.lifecycle.shutdown(context.Cause(ctx).Error(), s.closeSession(session))
			return nil
		case err := <-sessionDone:
			if s.lifecycle.shutdown(disconnectedReason, s.closeSession(session)) && err != nil {
				log.Printf("MCP session ended: %v", err)
			}
			return nil
		}
	}
}

// closeSession cancels in-flight tool calls, then closes session. The SDK
// waits for running handlers before Close returns, so the wait is capped at
// closeTimeout.
func (s *Server) closeSession(session *mcp.ServerSession) func() error {
	return func() error {
		s.cancelCalls()
		return closeWithin(session.Close, s.closeTimeout)
	}
}

func closeWithin(closeFn func() error, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- closeFn()
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("session did not close within %s", timeout)
	}
}

// cancelOnShutdown ties every tools/call context to the server so shutdown
// can abort lookups that are still waiting on a registry.
func (s *Server) cancelOnShutdown(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		if method != toolCallMethod {
			return next(ctx, method, req)
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(s.calls, cancel)
		defer stop()
		return next(ctx, method, req)
	}
}
