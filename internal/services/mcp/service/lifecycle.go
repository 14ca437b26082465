package service

import (
	"log"
	"sync/atomic"
)

// State is a stage of the server lifecycle.
type State int32

const (
	StateUninitialized State = iota
	StateRegistering
	StateConnected
	StateShuttingDown
	StateTerminated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRegistering:
		return "registering"
	case StateConnected:
		return "connected"
	case StateShuttingDown:
		return "shutting_down"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// lifecycle tracks the server state. Transitions are compare-and-swap so
// concurrent signal and disconnect paths agree on a single winner.
type lifecycle struct {
	state atomic.Int32
}

func (l *lifecycle) State() State {
	return State(l.state.Load())
}

// advance moves from -> to and reports whether this caller made the move.
func (l *lifecycle) advance(from, to State) bool {
	return l.state.CompareAndSwap(int32(from), int32(to))
}

// fail marks a startup failure. Terminal states are left alone.
func (l *lifecycle) fail() {
	for {
		current := l.State()
		switch current {
		case StateShuttingDown, StateTerminated, StateFailed:
			return
		}
		if l.advance(current, StateFailed) {
			return
		}
	}
}

// shutdown runs the one-shot shutdown sequence. Only the caller that moves the
// server out of StateConnected logs and calls closeSession; every other caller
// returns false without side effects. Close errors are logged and ignored.
func (l *lifecycle) shutdown(reason string, closeSession func() error) bool {
	if !l.advance(StateConnected, StateShuttingDown) {
		return false
	}
	log.Printf("Shutting down MCP server (%s)", reason)
	if closeSession != nil {
		if err := closeSession(); err != nil {
			log.Printf("close MCP session: %v", err)
		}
	}
	l.advance(StateShuttingDown, StateTerminated)
	return true
}
