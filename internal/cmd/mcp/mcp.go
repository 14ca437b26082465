// Package mcp loads the RDAP MCP bridge configuration from the environment and
// runs the stdio server.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	platformcmd "github.com/louisbranch/rdap-mcp/internal/platform/cmd"
	"github.com/louisbranch/rdap-mcp/internal/platform/telemetry/metrics"
	"github.com/louisbranch/rdap-mcp/internal/rdap"
	"github.com/louisbranch/rdap-mcp/internal/services/mcp/domain"
	"github.com/louisbranch/rdap-mcp/internal/services/mcp/service"
)

var _ domain.Lookuper = (*rdap.Client)(nil)

// Config holds MCP command configuration.
type Config struct {
	UserAgent      string        `env:"RDAP_MCP_USER_AGENT"      envDefault:"rdap-mcp/0.1.0"`
	RequestTimeout time.Duration `env:"RDAP_MCP_REQUEST_TIMEOUT" envDefault:"0s"`
	BootstrapURL   string        `env:"RDAP_MCP_BOOTSTRAP_URL"`
	Verbose        bool          `env:"RDAP_MCP_VERBOSE"         envDefault:"false"`
	MetricsAddr    string        `env:"RDAP_MCP_METRICS_ADDR"`
}

// ParseConfig reads Config from the environment. The bridge takes no flags.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout < 0 {
		return Config{}, fmt.Errorf("RDAP_MCP_REQUEST_TIMEOUT must not be negative")
	}
	return cfg, nil
}

// Run starts the RDAP MCP server on stdio and blocks until it stops. Failures
// before the server starts serving wrap service.ErrStartup.
func Run(ctx context.Context, cfg Config, signals <-chan os.Signal) error {
	started := false
	err := platformcmd.RunWithTelemetryAndOptions(ctx, platformcmd.ServiceMCP, platformcmd.RunOptions{
		Version: service.ServerVersion,
	}, func(ctx context.Context) error {
		started = true
		serviceCfg, closeDiagnostics, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer closeDiagnostics()
		return service.Run(ctx, serviceCfg, signals)
	})
	if err != nil && !started {
		return fmt.Errorf("%w: %w", service.ErrStartup, err)
	}
	return err
}

// buildService wires the RDAP client and the optional diagnostics listener.
// The returned func stops the listener.
func buildService(cfg Config) (service.Config, func(), error) {
	client, err := rdap.New(rdap.Config{
		UserAgent:      cfg.UserAgent,
		RequestTimeout: cfg.RequestTimeout,
		BootstrapURL:   cfg.BootstrapURL,
		Verbose:        cfg.Verbose,
	})
	if err != nil {
		return service.Config{}, nil, fmt.Errorf("%w: rdap client: %w", service.ErrStartup, err)
	}

	serviceCfg := service.Config{Lookup: client}
	addr := strings.TrimSpace(cfg.MetricsAddr)
	if addr == "" {
		return serviceCfg, func() {}, nil
	}

	recorder := metrics.NewRecorder()
	listener, err := metrics.Listen(addr, recorder.Handler())
	if err != nil {
		return service.Config{}, nil, fmt.Errorf("%w: %w", service.ErrStartup, err)
	}
	log.Printf("diagnostics listening on %s", listener.Addr())
	serviceCfg.Metrics = recorder
	return serviceCfg, func() {
		if err := listener.Close(); err != nil {
			log.Printf("close diagnostics listener: %v", err)
		}
	}, nil
}
