package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "muxpick"

// Metrics groups the picker's counters. A nil *Metrics is valid and
// records nothing, so callers pass it around unguarded.
type Metrics struct {
	// Picker loop counters
	Cycles         metric.Int64Counter
	SessionsListed metric.Int64Counter

	// Multiplexer query failures (partitioned by class: transient, unexpected)
	QueryErrors metric.Int64Counter

	// Dispatched prompt outcomes (partitioned by action: attach, create, shell)
	Actions metric.Int64Counter
}

// NewMetrics builds the instrument set against the registered meter
// provider. Without one the instruments exist but never export.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Cycles, err = meter.Int64Counter("muxpick.cycles",
		metric.WithDescription("Total picker cycles started (one scan-render-prompt round each)"))
	if err != nil {
		return nil, err
	}

	m.SessionsListed, err = meter.Int64Counter("muxpick.sessions.listed",
		metric.WithDescription("Total sessions presented across all cycles"),
		metric.WithUnit("{session}"))
	if err != nil {
		return nil, err
	}

	m.QueryErrors, err = meter.Int64Counter("muxpick.query.errors",
		metric.WithDescription("Multiplexer query failures partitioned by class (transient, unexpected)"))
	if err != nil {
		return nil, err
	}

	m.Actions, err = meter.Int64Counter("muxpick.actions",
		metric.WithDescription("Prompt outcomes partitioned by action (attach, create, shell)"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCycle records the start of a picker cycle.
func (m *Metrics) RecordCycle(ctx context.Context) {
	if m == nil {
		return
	}
	m.Cycles.Add(ctx, 1)
}

// RecordSessions records how many sessions a cycle presented.
func (m *Metrics) RecordSessions(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.SessionsListed.Add(ctx, int64(n))
}

// RecordQueryError records a failed aggregation cycle with its class.
func (m *Metrics) RecordQueryError(ctx context.Context, class string) {
	if m == nil {
		return
	}
	m.QueryErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error.class", class),
	))
}

// RecordAction records the action a prompt answer resolved to.
func (m *Metrics) RecordAction(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.Actions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
	))
}
