package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeStats is a point-in-time view of the process, served by the health endpoint
type RuntimeStats struct {
	Goroutines    int64         `json:"goroutines"`
	HeapBytes     int64         `json:"heap_bytes"`
	SystemBytes   int64         `json:"system_bytes"`
	GCCount       uint32        `json:"gc_count"`
	Uptime        time.Duration `json:"-"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Timestamp     time.Time     `json:"timestamp"`
}

// RuntimeCollector periodically publishes Go runtime gauges
type RuntimeCollector struct {
	goroutines metric.Int64Gauge
	heap       metric.Int64Gauge
	sys        metric.Int64Gauge
	uptime     metric.Float64Gauge

	startTime time.Time
	interval  time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewRuntimeCollector creates the runtime gauges on meter
func NewRuntimeCollector(meter metric.Meter, interval time.Duration) (*RuntimeCollector, error) {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	rc := &RuntimeCollector{
		startTime: time.Now(),
		interval:  interval,
		stopCh:    make(chan struct{}),
	}

	var err error
	if rc.goroutines, err = meter.Int64Gauge("system_goroutines",
		metric.WithDescription("Number of active goroutines")); err != nil {
		return nil, fmt.Errorf("failed to create goroutine gauge: %w", err)
	}
	if rc.heap, err = meter.Int64Gauge("system_memory_usage_bytes",
		metric.WithDescription("Heap bytes in use"), metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("failed to create heap gauge: %w", err)
	}
	if rc.sys, err = meter.Int64Gauge("system_memory_system_bytes",
		metric.WithDescription("Bytes obtained from the OS"), metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("failed to create system memory gauge: %w", err)
	}
	if rc.uptime, err = meter.Float64Gauge("system_uptime_seconds",
		metric.WithDescription("Process uptime"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create uptime gauge: %w", err)
	}

	return rc, nil
}

// Collect samples the runtime and records the gauges
func (rc *RuntimeCollector) Collect(ctx context.Context) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	uptime := time.Since(rc.startTime)
	stats := RuntimeStats{
		Goroutines:    int64(runtime.NumGoroutine()),
		HeapBytes:     int64(mem.HeapAlloc),
		SystemBytes:   int64(mem.Sys),
		GCCount:       mem.NumGC,
		Uptime:        uptime,
		UptimeSeconds: uptime.Seconds(),
		Timestamp:     time.Now(),
	}

	rc.goroutines.Record(ctx, stats.Goroutines)
	rc.heap.Record(ctx, stats.HeapBytes)
	rc.sys.Record(ctx, stats.SystemBytes)
	rc.uptime.Record(ctx, stats.UptimeSeconds)

	return stats
}

// Start collects on every tick until Stop or ctx cancellation
func (rc *RuntimeCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	rc.Collect(ctx)
	for {
		select {
		case <-ticker.C:
			rc.Collect(ctx)
		case <-rc.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends periodic collection. Later calls are no-ops.
func (rc *RuntimeCollector) Stop() {
	rc.stopOnce.Do(func() { close(rc.stopCh) })
}
