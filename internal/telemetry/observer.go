// Package telemetry records tool invocations into OpenTelemetry.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the meter and tracer name used by NewGlobalObserver.
const InstrumentationName = "toolprobe"

// Observation describes one finished scenario invocation.
type Observation struct {
	Tool      string
	Server    string
	Scenario  string
	Success   bool
	Started   time.Time
	Duration  time.Duration
	ErrorKind string
}

// Observer records invocation counters, latency and spans. A nil *Observer
// records nothing.
type Observer struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewObserver creates an observer bound to the provided meter and tracer.
// tracer may be nil to skip spans.
func NewObserver(meter metric.Meter, tracer trace.Tracer) (*Observer, error) {
	invocations, err := meter.Int64Counter(
		"toolprobe.tool.invocations",
		metric.WithDescription("Number of tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"toolprobe.tool.latency",
		metric.WithDescription("Tool invocation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Observer{
		tracer:      tracer,
		invocations: invocations,
		latency:     latency,
	}, nil
}

// NewGlobalObserver binds an observer to the process-wide providers, which
// are no-ops unless the embedding program installs real ones.
func NewGlobalObserver() (*Observer, error) {
	return NewObserver(otel.Meter(InstrumentationName), otel.Tracer(InstrumentationName))
}

// ObserveInvocation records one invocation. The span covers the invocation's
// own start and end times.
func (o *Observer) ObserveInvocation(ctx context.Context, obs Observation) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool_name", obs.Tool),
		attribute.String("scenario", obs.Scenario),
		attribute.Bool("success", obs.Success),
	}
	if obs.Server != "" {
		attrs = append(attrs, attribute.String("server", obs.Server))
	}
	if obs.ErrorKind != "" {
		attrs = append(attrs, attribute.String("error_kind", obs.ErrorKind))
	}

	options := metric.WithAttributes(attrs...)
	o.invocations.Add(ctx, 1, options)
	o.latency.Record(ctx, obs.Duration.Seconds(), options)

	if o.tracer == nil {
		return
	}

	started := obs.Started
	if started.IsZero() {
		started = time.Now().Add(-obs.Duration)
	}
	_, span := o.tracer.Start(ctx, "tool.invoke",
		trace.WithTimestamp(started),
		trace.WithAttributes(attrs...),
	)
	if !obs.Success {
		span.SetStatus(codes.Error, obs.ErrorKind)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(started.Add(obs.Duration)))
}
