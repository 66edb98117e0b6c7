package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	logins          metric.Int64Counter
	authExpirations metric.Int64Counter
	rowActions      metric.Int64Counter
	matches         metric.Int64Counter
	broadcasts      metric.Int64Counter
	upstreamCalls   metric.Float64Histogram
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.logins, err = meter.Int64Counter(
		"admin_console.logins",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.authExpirations, err = meter.Int64Counter(
		"admin_console.auth.expired",
		metric.WithDescription("Sessions force-logged-out after an upstream 401"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	m.rowActions, err = meter.Int64Counter(
		"admin_console.row_actions",
		metric.WithDescription("Row-level admin actions by action and outcome"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, err
	}

	m.matches, err = meter.Int64Counter(
		"admin_console.matches",
		metric.WithDescription("Match submissions by outcome"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		return nil, err
	}

	m.broadcasts, err = meter.Int64Counter(
		"admin_console.broadcasts",
		metric.WithDescription("Broadcast submissions by target role and outcome"),
		metric.WithUnit("{broadcast}"),
	)
	if err != nil {
		return nil, err
	}

	m.upstreamCalls, err = meter.Float64Histogram(
		"admin_console.upstream.duration",
		metric.WithDescription("Latency of calls to the remote admin API"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func outcome(ok bool) attribute.KeyValue {
	if ok {
		return attribute.String("outcome", "success")
	}
	return attribute.String("outcome", "failure")
}

func (m *Metrics) RecordLogin(ctx context.Context, ok bool) {
	if m != nil && m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(outcome(ok)))
	}
}

func (m *Metrics) RecordAuthExpired(ctx context.Context) {
	if m != nil && m.authExpirations != nil {
		m.authExpirations.Add(ctx, 1)
	}
}

func (m *Metrics) RecordRowAction(ctx context.Context, action string, ok bool) {
	if m != nil && m.rowActions != nil {
		m.rowActions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action), outcome(ok)))
	}
}

func (m *Metrics) RecordMatch(ctx context.Context, ok bool) {
	if m != nil && m.matches != nil {
		m.matches.Add(ctx, 1, metric.WithAttributes(outcome(ok)))
	}
}

func (m *Metrics) RecordBroadcast(ctx context.Context, targetRole string, ok bool) {
	if m != nil && m.broadcasts != nil {
		m.broadcasts.Add(ctx, 1, metric.WithAttributes(attribute.String("target_role", targetRole), outcome(ok)))
	}
}

// RecordUpstreamCall satisfies api.Recorder. Status 0 means unreachable.
func (m *Metrics) RecordUpstreamCall(ctx context.Context, method, endpoint string, status int, elapsed time.Duration) {
	if m != nil && m.upstreamCalls != nil {
		m.upstreamCalls.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("endpoint", endpoint),
			attribute.String("status", strconv.Itoa(status)),
		))
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}
