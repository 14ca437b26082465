package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpcmd "github.com/louisbranch/rdap-mcp/internal/cmd/mcp"
	"github.com/louisbranch/rdap-mcp/internal/platform/config"
	"github.com/louisbranch/rdap-mcp/internal/services/mcp/service"
)

// main serves the RDAP lookup tools over MCP on stdio.
func main() {
	log.SetPrefix("[RDAP MCP] ")
	log.SetOutput(os.Stderr)

	cfg, err := mcpcmd.ParseConfig()
	if err != nil {
		config.Exitf("Error initializing RDAP MCP server: %v", err)
	}

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	if err := mcpcmd.Run(context.Background(), cfg, signals); err != nil {
		if errors.Is(err, service.ErrStartup) {
			config.Exitf("Error initializing RDAP MCP server: %v", err)
		}
		log.Fatalf("failed to serve MCP: %v", err)
	}
}
