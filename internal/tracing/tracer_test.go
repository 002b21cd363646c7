package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled, "tracing should be disabled by default")
	assert.Equal(t, "file", cfg.Exporter)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, "pamfold", cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.False(t, provider.Enabled())
	require.NotNil(t, provider.Tracer(), "disabled provider must still hand out a tracer")

	// Spans from the noop tracer must be usable without panicking.
	_, span := provider.Tracer().Start(context.Background(), SpanParseFull)
	span.SetAttributes(attribute.Int(AttrLineCount, 42))
	span.End()

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporter(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:     true,
		Exporter:    "file",
		File:        tracePath,
		SampleRate:  1.0,
		ServiceName: "pamfold-test",
	})
	require.NoError(t, err)
	assert.True(t, provider.Enabled())

	ctx, span := provider.Tracer().Start(context.Background(), SpanParseFull)
	span.SetAttributes(
		attribute.String(AttrFile, "deck.pc"),
		attribute.Int(AttrLineCount, 1200),
	)
	span.End()

	// A child span should nest under the parent without error.
	_, child := provider.Tracer().Start(ctx, SpanFoldsSend)
	child.End()

	// Shutdown flushes the batcher.
	require.NoError(t, provider.Shutdown(context.Background()))

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), SpanParseFull)
	assert.Contains(t, string(data), SpanFoldsSend)
	assert.Contains(t, string(data), "pamfold.lines")
}

func TestNewProvider_FileExporterRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "file",
		File:     "",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trace file required")
}

func TestNewProvider_NoneExporter(t *testing.T) {
	provider, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "none",
	})
	require.NoError(t, err)
	assert.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanWatchCycle)
	span.End()

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{
		Enabled:  true,
		Exporter: "zipkin",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter type")
}

func TestNewProvider_DefaultsApplied(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	// Zero sample rate and empty service name fall back to defaults
	// rather than producing a provider that records nothing.
	provider, err := NewProvider(Config{
		Enabled:    true,
		Exporter:   "file",
		File:       tracePath,
		SampleRate: 0,
	})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), SpanParseUpdate)
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), SpanParseUpdate,
		"zero sample rate should fall back to recording everything")
}
