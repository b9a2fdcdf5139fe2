// Package otel wires muxpick's traces and metrics to an OTLP endpoint.
//
// Telemetry is off unless an endpoint is configured (config file,
// MUXPICK_OTEL_ENDPOINT, or the standard OTEL_EXPORTER_OTLP_* vars):
// without one no provider is registered and every instrument no-ops,
// so call sites never guard.
package otel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "muxpick"

// Version is stamped by cmd before Init runs.
var Version = "dev"

// Config selects the OTLP target.
type Config struct {
	// Endpoint is the collector base URL ("http://localhost:4318").
	// Empty disables telemetry entirely.
	Endpoint string
	// Headers is the OTEL_EXPORTER_OTLP_HEADERS form: "k=v,k2=v2".
	Headers string
}

// Telemetry owns the providers for one process. Built without an
// endpoint it is inert: Tracer emits no-op spans and Metrics drops
// every record.
type Telemetry struct {
	traces *sdktrace.TracerProvider
	meters *sdkmetric.MeterProvider

	Tracer  trace.Tracer
	Metrics *Metrics
}

// Init builds the process telemetry. With an endpoint it registers
// OTLP HTTP exporters for both signals; without one it only hands out
// the global no-op tracer and meter.
func Init(ctx context.Context, cfg Config) (*Telemetry, error) {
	t := &Telemetry{}
	if cfg.Endpoint != "" {
		target, err := parseEndpoint(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceName(serviceName),
				semconv.ServiceVersion(Version),
			),
			resource.WithHost(),
		)
		if err != nil {
			return nil, fmt.Errorf("otel resource: %w", err)
		}
		headers := parseHeaders(cfg.Headers)
		if t.traces, err = newTraceProvider(ctx, res, target, headers); err != nil {
			return nil, err
		}
		if t.meters, err = newMeterProvider(ctx, res, target, headers); err != nil {
			return nil, err
		}
		otel.SetTracerProvider(t.traces)
		otel.SetMeterProvider(t.meters)
	}

	t.Tracer = otel.Tracer(serviceName)
	m, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("otel metrics: %w", err)
	}
	t.Metrics = m
	return t, nil
}

// Shutdown flushes and stops both providers. Without an endpoint there
// is nothing to flush.
func (t *Telemetry) Shutdown(ctx context.Context) {
	if t.traces != nil {
		_ = t.traces.Shutdown(ctx)
	}
	if t.meters != nil {
		_ = t.meters.Shutdown(ctx)
	}
}

// endpoint is a parsed collector base URL. The SDK appends the signal
// suffixes (/v1/traces, /v1/metrics) to basePath.
type endpoint struct {
	host     string
	basePath string
	insecure bool
}

func parseEndpoint(raw string) (endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return endpoint{}, fmt.Errorf("otel: endpoint %q: %w", raw, err)
	}
	return endpoint{
		host:     u.Host,
		basePath: strings.TrimRight(u.Path, "/"),
		insecure: u.Scheme == "http",
	}, nil
}

// parseHeaders reads the OTEL_EXPORTER_OTLP_HEADERS form "k=v,k2=v2".
// Pairs without a key are dropped.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(val)
	}
	return headers
}

func newTraceProvider(ctx context.Context, res *resource.Resource, ep endpoint, headers map[string]string) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(ep.host),
		otlptracehttp.WithURLPath(ep.basePath + "/v1/traces"),
	}
	if ep.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(headers))
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otel trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}

func newMeterProvider(ctx context.Context, res *resource.Resource, ep endpoint, headers map[string]string) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(ep.host),
		otlpmetrichttp.WithURLPath(ep.basePath + "/v1/metrics"),
	}
	if ep.insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(headers))
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otel metric exporter: %w", err)
	}
	// Short runs export on the shutdown flush; the periodic reader
	// covers pickers left sitting at the prompt.
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp,
			sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	), nil
}
