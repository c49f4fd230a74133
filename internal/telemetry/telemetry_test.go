package telemetry

import (
	"context"
	"testing"
)

func TestSetupNone(t *testing.T) {
	ctx := context.Background()

	tracer, shutdown, err := Setup(ctx, "none", "")
	if err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}
	defer shutdown(ctx)

	_, span := tracer.Start(ctx, "test")
	if !span.SpanContext().IsValid() {
		t.Error("expected a recorded span even without an exporter")
	}
	span.End()
}

func TestSetupUnknownExporter(t *testing.T) {
	if _, _, err := Setup(context.Background(), "zipkin", ""); err == nil {
		t.Error("Setup() should reject unknown exporters")
	}
}
