package metrics

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ObserveRuntime registers process gauges for the console: goroutines,
// heap usage, completed GC cycles and uptime since start.
func ObserveRuntime(meter metric.Meter, start time.Time) error {
	goroutines, err := meter.Int64ObservableGauge(
		"admin_console.runtime.goroutines",
		metric.WithDescription("Number of live goroutines"),
		metric.WithUnit("{goroutine}"),
	)
	if err != nil {
		return err
	}

	heap, err := meter.Int64ObservableGauge(
		"admin_console.runtime.heap_alloc",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return err
	}

	gcCycles, err := meter.Int64ObservableCounter(
		"admin_console.runtime.gc_cycles",
		metric.WithDescription("Completed GC cycles"),
		metric.WithUnit("{gc}"),
	)
	if err != nil {
		return err
	}

	uptime, err := meter.Float64ObservableCounter(
		"admin_console.uptime",
		metric.WithDescription("Seconds since the console started"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heap, int64(ms.HeapAlloc))
		o.ObserveInt64(gcCycles, int64(ms.NumGC))
		o.ObserveFloat64(uptime, time.Since(start).Seconds())
		return nil
	}, goroutines, heap, gcCycles, uptime)
	return err
}
