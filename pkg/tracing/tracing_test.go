package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDatabaseSpanWrapper_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	boom := errors.New("boom")

	err := DatabaseSpanWrapper(context.Background(), "sqlite", "tasks", "insert", func(ctx context.Context) error {
		assert.NotEmpty(t, GetTraceID(ctx))
		return boom
	})

	assert.ErrorIs(t, err, boom)

	spans := recorder.Ended()
	assert.Len(t, spans, 1)
	assert.Equal(t, "db.tasks.insert", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
