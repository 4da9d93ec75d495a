package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/donaldgifford/ikea-api-client/internal/config"
	"github.com/donaldgifford/ikea-api-client/internal/telemetry"
)

// These tests swap the global tracer provider and must not run in parallel.

func TestSetup_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := telemetry.Setup(context.Background(), config.TelemetryConfig{}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestSetup_OTLP(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown, err := telemetry.Setup(context.Background(), config.TelemetryConfig{
		OTLPEndpoint: "127.0.0.1:4317",
		ServiceName:  "ikea-test",
		Insecure:     true,
	}, "test")
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx) //nolint:errcheck // nothing listens on the endpoint
}
