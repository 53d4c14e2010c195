// Package telemetry provides OpenTelemetry tracer and meter initialization
// with support for stdout (development) and OTLP/HTTP (production) exporters,
// plus the service's pre-registered metric instruments.
//
// Tracer initialization:
//
//	tp, err := telemetry.InitTracer(ctx, "projectboard", telemetry.ExporterStdout, "")
//	defer tp.Shutdown(ctx)
//
// Meter initialization:
//
//	mp, err := telemetry.InitMeter(ctx, "projectboard", telemetry.ExporterStdout, "")
//	defer mp.Shutdown(ctx)
//
// Pre-registered metrics:
//
//	metrics, err := telemetry.NewMetrics(mp, "projectboard")
//	metrics.RecordProjectAdded(ctx)
//
// Every Record* method is safe to call on a nil *Metrics, so components can
// run with telemetry disabled.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Attribute keys for metric labels.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrRule        = attribute.Key("validation.rule")
)

// Metrics holds pre-registered OpenTelemetry metric instruments.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter

	ProjectsAdded       metric.Int64Counter
	ListenerInvocations metric.Int64Counter
	ListenerPanics      metric.Int64Counter
	ValidationFailures  metric.Int64Counter
}

// InitTracer creates and registers a global TracerProvider along with a
// W3C trace-context and baggage propagator. ExporterOTLP sends spans over
// OTLP/HTTP to endpoint; ExporterStdout pretty-prints them.
//
// The caller owns the returned provider and must shut it down.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, target, err := prepare(serviceName, exporter, endpoint)
	if err != nil {
		return nil, err
	}

	var spanExporter sdktrace.SpanExporter
	if target.otlp {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(target.host)}
		if target.insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		spanExporter, err = otlptracehttp.New(ctx, opts...)
	} else {
		spanExporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// InitMeter creates and registers a global MeterProvider with a periodic
// reader. Exporter selection matches InitTracer.
//
// The caller owns the returned provider and must shut it down.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, target, err := prepare(serviceName, exporter, endpoint)
	if err != nil {
		return nil, err
	}

	var metricExporter sdkmetric.Exporter
	if target.otlp {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(target.host)}
		if target.insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		metricExporter, err = otlpmetrichttp.New(ctx, opts...)
	} else {
		metricExporter, err = stdoutmetric.New()
	}
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewMetrics creates all metric instruments from the given MeterProvider.
// The meter is scoped to serviceName.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(serviceName)

	var (
		m    Metrics
		errs []error
	)

	histogram := func(dst *metric.Float64Histogram, name, desc string) {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
			return
		}
		*dst = h
	}
	counter := func(dst *metric.Int64Counter, name, desc, unit string) {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
			return
		}
		*dst = c
	}

	histogram(&m.ServerRequestDuration, "http.server.request.duration", "Duration of incoming HTTP requests")
	counter(&m.ServerRequestTotal, "http.server.request.total", "Total number of incoming HTTP requests", "{request}")
	histogram(&m.ClientRequestDuration, "http.client.request.duration", "Duration of outgoing HTTP requests")
	counter(&m.ClientRequestTotal, "http.client.request.total", "Total number of outgoing HTTP requests", "{request}")

	counter(&m.ProjectsAdded, "projects.added.total", "Projects appended to the store", "{project}")
	counter(&m.ListenerInvocations, "projects.listener.invocations.total", "Change listener invocations", "{call}")
	counter(&m.ListenerPanics, "projects.listener.panics.total", "Change listeners that panicked", "{call}")
	counter(&m.ValidationFailures, "validation.failures.total", "Failed constraint rules", "{rule}")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordProjectAdded counts one appended project. Nil-safe.
func (m *Metrics) RecordProjectAdded(ctx context.Context) {
	if m == nil {
		return
	}
	m.ProjectsAdded.Add(ctx, 1)
}

// RecordListener counts one listener invocation, and a panic when panicked
// is true. Nil-safe.
func (m *Metrics) RecordListener(ctx context.Context, panicked bool) {
	if m == nil {
		return
	}
	m.ListenerInvocations.Add(ctx, 1)
	if panicked {
		m.ListenerPanics.Add(ctx, 1)
	}
}

// RecordValidationFailure counts one failed rule. Nil-safe.
func (m *Metrics) RecordValidationFailure(ctx context.Context, rule string) {
	if m == nil {
		return
	}
	m.ValidationFailures.Add(ctx, 1, metric.WithAttributes(AttrRule.String(rule)))
}

// exportTarget is the parsed form of an exporter name and endpoint.
type exportTarget struct {
	otlp     bool
	host     string
	insecure bool
}

func prepare(serviceName, exporter, endpoint string) (*resource.Resource, exportTarget, error) {
	target, err := parseTarget(exporter, endpoint)
	if err != nil {
		return nil, exportTarget{}, err
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, exportTarget{}, fmt.Errorf("creating resource: %w", err)
	}
	return res, target, nil
}

// parseTarget accepts a bare "host:port" or a URL such as
// "https://collector:4318". Only an https scheme enables TLS.
func parseTarget(exporter, endpoint string) (exportTarget, error) {
	switch exporter {
	case ExporterStdout:
		return exportTarget{}, nil
	case ExporterOTLP:
	default:
		return exportTarget{}, fmt.Errorf("unsupported exporter %q", exporter)
	}
	if endpoint == "" {
		return exportTarget{}, errors.New("otlp exporter requires an endpoint")
	}

	target := exportTarget{otlp: true, host: endpoint, insecure: true}
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		target.host = u.Host
		target.insecure = u.Scheme != "https"
	}
	return target, nil
}
