package service

import (
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools adds each registration to server. The SDK panics on schemas it
// cannot resolve; that panic is returned as an error so startup can report it.
func registerTools(server *mcp.Server, registrations []toolRegistration) (err error) {
	if server == nil {
		return fmt.Errorf("mcp server is nil")
	}
	seen := make(map[string]struct{}, len(registrations))
	for _, registration := range registrations {
		if registration.tool == nil {
			return fmt.Errorf("tool is nil")
		}
		name := registration.tool.Name
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("tool name is required")
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("tool %q is registered twice", name)
		}
		if registration.add == nil {
			return fmt.Errorf("tool %q has no handler", name)
		}
		seen[name] = struct{}{}
		if err := addTool(server, registration); err != nil {
			return err
		}
	}
	return nil
}

func addTool(server *mcp.Server, registration toolRegistration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("register tool %q: %v", registration.tool.Name, r)
		}
	}()
	registration.add(server)
	return nil
}
