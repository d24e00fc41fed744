package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInitTracingDisabledInstallsNonRecordingProvider(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	_, span := otel.GetTracerProvider().Tracer("planner_test").Start(context.Background(), "tick")
	defer span.End()
	if span.IsRecording() {
		t.Error("disabled tracing produced a recording span")
	}
	if span.SpanContext().IsValid() {
		t.Error("disabled tracing produced a valid span context")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestInitTracingStdoutExporter(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{
		Enabled:     true,
		Exporter:    "stdout",
		SampleRatio: 1.0,
	}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestInitTracingRejectsUnknownExporter(t *testing.T) {
	if _, err := InitTracing(context.Background(), TracingConfig{
		Enabled:  true,
		Exporter: "carrier-pigeon",
	}, nil); err == nil {
		t.Fatal("InitTracing accepted an unknown exporter")
	}
}

func TestShutdownWithTimeoutHandlesNil(t *testing.T) {
	ShutdownWithTimeout(context.Background(), nil, nil)
}
