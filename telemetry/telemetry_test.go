package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanContext() context.Context {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	ctx, _ := provider.Tracer("test").Start(context.Background(), "test-span")
	return ctx
}

func TestOTELHookInjectsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(OTELHook{})

	logger.Info().Ctx(spanContext()).Msg("with span")

	out := buf.String()
	assert.Contains(t, out, "trace_id")
	assert.Contains(t, out, "span_id")
}

func TestOTELHookNoSpanNoFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(OTELHook{})

	logger.Info().Ctx(context.Background()).Msg("plain")

	out := buf.String()
	assert.NotContains(t, out, "trace_id")
	assert.NotContains(t, out, "span_id")
}

func TestNewLoggerSetsComponent(t *testing.T) {
	logger := NewLogger("orchestrator")
	assert.NotNil(t, logger)

	var buf bytes.Buffer
	scoped := logger.Output(&buf)
	scoped.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"orchestrator"`)
}
