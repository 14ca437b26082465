package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/rdap-mcp/internal/platform/telemetry/metrics"
	"github.com/louisbranch/rdap-mcp/internal/platform/timeouts"
	"github.com/louisbranch/rdap-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "rdap"
	// serverTitle is the display name advertised to clients.
	serverTitle = "RDAP"
	// ServerVersion identifies the MCP server version.
	ServerVersion = "0.1.0"
	// serverInstructions describes the server's purpose to clients.
	serverInstructions = "Look up about domain, IP, and ASN using RDAP."
)

// ErrStartup marks failures that happen before the server starts serving.
var ErrStartup = errors.New("mcp startup failed")

// Config configures the MCP server.
type Config struct {
	// Lookup performs the RDAP queries behind every tool.
	Lookup domain.Lookuper
	// Metrics receives tool-call observations. Nil disables metrics.
	Metrics *metrics.Recorder
}

// Server hosts the MCP server. There is one per process.
type Server struct {
	mcpServer *mcp.Server
	lifecycle lifecycle

	// calls parents every tool call context; cancelCalls aborts in-flight
	// lookups at shutdown.
	calls        context.Context
	cancelCalls  context.CancelFunc
	closeTimeout time.Duration
}

// New creates an MCP server with every lookup tool registered. Failures are
// wrapped with ErrStartup.
func New(cfg Config) (*Server, error) {
	s := &Server{closeTimeout: timeouts.SessionClose}
	s.calls, s.cancelCalls = context.WithCancel(context.Background())
	if !s.lifecycle.advance(StateUninitialized, StateRegistering) {
		return nil, startupError(fmt.Errorf("server lifecycle is %s", s.lifecycle.State()))
	}
	if cfg.Lookup == nil {
		s.lifecycle.fail()
		return nil, startupError(errors.New("rdap client is required"))
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Title:   serverTitle,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Instructions: serverInstructions,
	})

	registrations := toolRegistrations(cfg.Lookup)
	if err := registerTools(mcpServer, registrations); err != nil {
		s.lifecycle.fail()
		return nil, startupError(err)
	}
	mcpServer.AddReceivingMiddleware(
		s.cancelOnShutdown,
		toolCallTelemetry(cfg.Metrics, toolNames(registrations)),
	)

	s.mcpServer = mcpServer
	return s, nil
}

// State reports the current lifecycle state.
func (s *Server) State() State {
	if s == nil {
		return StateUninitialized
	}
	return s.lifecycle.State()
}

func startupError(err error) error {
	return fmt.Errorf("%w: %w", ErrStartup, err)
}
