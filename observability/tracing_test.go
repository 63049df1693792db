package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSetupTracing_Stdout(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	config := TracerConfig{
		ServiceName:    "slnmerge-test",
		ServiceVersion: "1.0.0",
		ExporterType:   ExporterStdout,
		Output:         buf,
	}

	tp, err := SetupTracing(ctx, config)
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}

	_, span := Tracer("test").Start(ctx, "test-operation")
	span.SetAttributes(attribute.String("test.key", "test.value"))
	span.End()

	if err := ShutdownTracing(ctx, tp); err != nil {
		t.Errorf("ShutdownTracing() failed: %v", err)
	}

	if !strings.Contains(buf.String(), "test-operation") {
		t.Errorf("stdout exporter output missing span name: %s", buf.String())
	}
}

func TestSetupTracing_None(t *testing.T) {
	ctx := context.Background()

	tp, err := SetupTracing(ctx, DefaultTracerConfig())
	if err != nil {
		t.Fatalf("SetupTracing() with none exporter failed: %v", err)
	}
	defer func() {
		if err := ShutdownTracing(ctx, tp); err != nil {
			t.Errorf("ShutdownTracing() failed: %v", err)
		}
	}()

	_, span := StartSpan(ctx, TracerName, "test-span")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Error("Span context should be valid")
	}
}

func TestSetupTracing_UnsupportedExporter(t *testing.T) {
	config := DefaultTracerConfig()
	config.ExporterType = "carrier-pigeon"

	if _, err := SetupTracing(context.Background(), config); err == nil {
		t.Error("SetupTracing() should fail for an unknown exporter")
	}
}
