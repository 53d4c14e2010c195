package telemetry_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/projectboard/internal/platform/telemetry"
)

// Providers are global, so the init tests below do not run in parallel.

func TestInit_Exporters(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		endpoint string
	}{
		{name: "stdout", exporter: telemetry.ExporterStdout},
		{name: "otlp url", exporter: telemetry.ExporterOTLP, endpoint: "http://localhost:4318"},
		{name: "otlp host port", exporter: telemetry.ExporterOTLP, endpoint: "localhost:4318"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			tp, err := telemetry.InitTracer(ctx, "projectboard-test", tt.exporter, tt.endpoint)
			if err != nil {
				t.Fatalf("InitTracer() error = %v", err)
			}
			mp, err := telemetry.InitMeter(ctx, "projectboard-test", tt.exporter, tt.endpoint)
			if err != nil {
				t.Fatalf("InitMeter() error = %v", err)
			}
			// No collector listens in unit tests, so OTLP shutdown may report a flush error.
			_ = tp.Shutdown(ctx)
			_ = mp.Shutdown(ctx)
		})
	}
}

func TestInit_RejectsBadExporter(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		endpoint string
	}{
		{name: "unknown exporter", exporter: "zipkin"},
		{name: "empty exporter", exporter: ""},
		{name: "otlp without endpoint", exporter: telemetry.ExporterOTLP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := telemetry.InitTracer(ctx, "svc", tt.exporter, tt.endpoint); err == nil {
				t.Error("InitTracer() error = nil, want error")
			}
			if _, err := telemetry.InitMeter(ctx, "svc", tt.exporter, tt.endpoint); err == nil {
				t.Error("InitMeter() error = nil, want error")
			}
		})
	}
}

func TestInitTracer_InstallsPropagator(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, "projectboard-test", telemetry.ExporterStdout, "")
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	fields := map[string]bool{}
	for _, f := range otel.GetTextMapPropagator().Fields() {
		fields[f] = true
	}
	for _, want := range []string{"traceparent", "baggage"} {
		if !fields[want] {
			t.Errorf("propagator fields missing %q: %v", want, fields)
		}
	}
}

func TestNewMetrics_AllInstruments(t *testing.T) {
	t.Parallel()

	m, err := telemetry.NewMetrics(noop.NewMeterProvider(), "projectboard-test")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	instruments := map[string]any{
		"ServerRequestDuration": m.ServerRequestDuration,
		"ServerRequestTotal":    m.ServerRequestTotal,
		"ClientRequestDuration": m.ClientRequestDuration,
		"ClientRequestTotal":    m.ClientRequestTotal,
		"ProjectsAdded":         m.ProjectsAdded,
		"ListenerInvocations":   m.ListenerInvocations,
		"ListenerPanics":        m.ListenerPanics,
		"ValidationFailures":    m.ValidationFailures,
	}
	for name, inst := range instruments {
		if inst == nil {
			t.Errorf("%s not registered", name)
		}
	}
}

func TestMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var m *telemetry.Metrics
	ctx := context.Background()

	m.RecordProjectAdded(ctx)
	m.RecordListener(ctx, true)
	m.RecordValidationFailure(ctx, "required")
}

func TestMetrics_DomainCounters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	m, err := telemetry.NewMetrics(mp, "projectboard-test")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	m.RecordProjectAdded(ctx)
	m.RecordProjectAdded(ctx)
	m.RecordListener(ctx, false)
	m.RecordListener(ctx, true)
	m.RecordValidationFailure(ctx, "max_length")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := sums(rm)
	want := map[string]int64{
		"projects.added.total":                2,
		"projects.listener.invocations.total": 2,
		"projects.listener.panics.total":      1,
		"validation.failures.total":           1,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %d, want %d", name, got[name], v)
		}
	}
}

func sums(rm metricdata.ResourceMetrics) map[string]int64 {
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[md.Name] += dp.Value
			}
		}
	}
	return out
}
