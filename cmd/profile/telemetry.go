package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const serviceName = "colframe-profile"

// tracing owns the span exporter of one profiling run
type tracing struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	file     *os.File
}

// newTracing exports spans as JSON to traces.json under dir. A sampling rate
// of zero disables tracing.
func newTracing(ctx context.Context, dir string, samplingRate float64) (*tracing, error) {
	if samplingRate <= 0 {
		return &tracing{tracer: noop.NewTracerProvider().Tracer(serviceName)}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "traces.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	var sampler sdktrace.Sampler
	if samplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(samplingRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
	)

	return &tracing{tracer: tp.Tracer(serviceName), provider: tp, file: f}, nil
}

// span starts a child span of ctx for one transformation
func (t *tracing) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// shutdown flushes pending spans and closes the trace file
func (t *tracing) shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	err := t.provider.Shutdown(ctx)
	if cerr := t.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// resourceUsage is a snapshot of the profiled process
type resourceUsage struct {
	CPUPercent    float64
	RSSBytes      uint64
	VMSBytes      uint64
	SystemUsedPct float64
	Threads       int32
	Goroutines    int
	HeapAlloc     uint64
}

// sampleResources reads the process and system counters. Counters the
// platform does not expose are left at zero.
func sampleResources() (resourceUsage, error) {
	var usage resourceUsage

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return usage, fmt.Errorf("failed to open process: %w", err)
	}
	if memInfo, err := proc.MemoryInfo(); err == nil {
		usage.RSSBytes = memInfo.RSS
		usage.VMSBytes = memInfo.VMS
	}
	usage.CPUPercent, _ = proc.CPUPercent()
	usage.Threads, _ = proc.NumThreads()

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemUsedPct = vmStat.UsedPercent
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usage.HeapAlloc = ms.HeapAlloc
	usage.Goroutines = runtime.NumGoroutine()

	return usage, nil
}

func (u resourceUsage) fields() []zap.Field {
	return []zap.Field{
		zap.Float64("cpu_percent", u.CPUPercent),
		zap.Uint64("rss_bytes", u.RSSBytes),
		zap.Uint64("vms_bytes", u.VMSBytes),
		zap.Float64("system_memory_used_percent", u.SystemUsedPct),
		zap.Int32("threads", u.Threads),
		zap.Int("goroutines", u.Goroutines),
		zap.Uint64("heap_alloc", u.HeapAlloc),
	}
}
