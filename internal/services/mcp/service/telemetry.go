package service

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/rdap-mcp/internal/id"
	"github.com/louisbranch/rdap-mcp/internal/platform/telemetry/metrics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName     = "github.com/louisbranch/rdap-mcp/internal/services/mcp/service"
	toolCallMethod = "tools/call"
	toolCallSpan   = "mcp.tools/call"
	unknownTool    = "unknown"
)

// toolCallTelemetry observes every tools/call request: one log line, one span
// and one metric sample per call. Other methods pass through untouched.
// Arguments and lookup payloads are never recorded.
func toolCallTelemetry(recorder *metrics.Recorder, known map[string]struct{}) mcp.Middleware {
	tracer := otel.Tracer(tracerName)
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != toolCallMethod {
				return next(ctx, method, req)
			}

			name := toolLabel(req, known)
			invocationID, err := id.NewID()
			if err != nil {
				log.Printf("tool call: invocation id: %v", err)
			}

			ctx, span := tracer.Start(ctx, toolCallSpan,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("mcp.tool.name", name),
					attribute.String("mcp.invocation_id", invocationID),
				),
			)
			defer span.End()

			start := time.Now()
			result, callErr := next(ctx, method, req)
			elapsed := time.Since(start)

			outcome := callOutcome(result, callErr)
			span.SetAttributes(attribute.Bool("mcp.tool.is_error", outcome != metrics.OutcomeOK))
			switch {
			case callErr != nil:
				span.RecordError(callErr)
				span.SetStatus(codes.Error, callErr.Error())
			case outcome == metrics.OutcomeLookupError:
				span.SetStatus(codes.Error, "lookup failed")
			}

			recorder.ObserveToolCall(name, outcome, elapsed)
			log.Printf("tool call: name=%s invocation=%s outcome=%s duration=%s", name, invocationID, outcome, elapsed)
			return result, callErr
		}
	}
}

// toolLabel returns the requested tool name, or "unknown" for names that are
// not registered so metric label cardinality stays bounded.
func toolLabel(req mcp.Request, known map[string]struct{}) string {
	call, ok := req.(*mcp.CallToolRequest)
	if !ok || call.Params == nil {
		return unknownTool
	}
	if _, ok := known[call.Params.Name]; !ok {
		return unknownTool
	}
	return call.Params.Name
}

func callOutcome(result mcp.Result, err error) string {
	if err != nil {
		return metrics.OutcomeInvalid
	}
	if toolResult, ok := result.(*mcp.CallToolResult); ok && toolResult != nil && toolResult.IsError {
		return metrics.OutcomeLookupError
	}
	return metrics.OutcomeOK
}
