// Command profile runs the frame transformations in a loop and writes pprof
// profiles of the run.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/colframe/colframe/internal/sample"
	"github.com/colframe/colframe/pkg/columnar"
	"github.com/colframe/colframe/pkg/config"
	"github.com/colframe/colframe/pkg/logger"
	"github.com/colframe/colframe/pkg/visitors"
)

const version = "0.1.0"

func main() {
	var (
		duration     = flag.Duration("duration", 30*time.Second, "Profiling duration")
		outputDir    = flag.String("output", "./profiles", "Output directory for profiles")
		profileTypes = flag.String("types", "cpu,memory", "Profile types (cpu,memory,block,mutex,goroutine,all)")
		cpuFile      = flag.String("cpuprofile", "", "Write CPU profile to file")
		memFile      = flag.String("memprofile", "", "Write memory profile to file")
		rows         = flag.Int("rows", 100000, "Rows of the generated frame")
		seed         = flag.Uint64("seed", 23, "Seed of the generated frame")
		sampling     = flag.Float64("trace-sampling", 0, "Fraction of workload rounds traced to traces.json (0 disables)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -types cpu -duration 30s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -cpuprofile cpu.prof -memprofile mem.prof -rows 1000000\n", os.Args[0])
	}

	flag.Parse()

	if err := logger.Init(logger.Config{Level: "info", Encoding: "console", OutputPaths: []string{"stderr"}}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.With(zap.String("component", "colframe-profile"))
	defer func() { _ = logger.Sync() }()

	types := parseProfileTypes(*profileTypes)

	log.Info("starting profiling",
		zap.Duration("duration", *duration),
		zap.Strings("types", types),
		zap.String("output", *outputDir),
		zap.Int("rows", *rows))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatal("failed to create output directory", zap.Error(err))
	}

	if *cpuFile != "" || slices.Contains(types, "cpu") {
		cpuProfileFile := *cpuFile
		if cpuProfileFile == "" {
			cpuProfileFile = fmt.Sprintf("%s/cpu.prof", *outputDir)
		}

		f, err := os.Create(cpuProfileFile)
		if err != nil {
			log.Fatal("failed to create CPU profile", zap.Error(err))
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("failed to start CPU profile", zap.Error(err))
		}
		defer pprof.StopCPUProfile()

		log.Info("CPU profiling enabled", zap.String("file", cpuProfileFile))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	tr, err := newTracing(ctx, *outputDir, *sampling)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tr.shutdown(shutdownCtx); err != nil {
			log.Error("failed to flush traces", zap.Error(err))
		}
	}()

	if usage, err := sampleResources(); err == nil {
		log.Info("resource usage before workload", usage.fields()...)
	}

	cfg := config.NewConfig()
	cfg.RandGen.Rows = *rows
	cfg.RandGen.Seed = *seed
	rounds, err := runWorkload(ctx, cfg, log, tr)
	if err != nil {
		log.Fatal("workload failed", zap.Error(err))
	}
	log.Info("workload completed", zap.Int("rounds", rounds))

	if usage, err := sampleResources(); err == nil {
		log.Info("resource usage after workload", usage.fields()...)
	} else {
		log.Warn("failed to sample resource usage", zap.Error(err))
	}

	if *memFile != "" || slices.Contains(types, "memory") {
		memProfileFile := *memFile
		if memProfileFile == "" {
			memProfileFile = fmt.Sprintf("%s/mem.prof", *outputDir)
		}

		f, err := os.Create(memProfileFile)
		if err != nil {
			log.Fatal("failed to create memory profile", zap.Error(err))
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("failed to write memory profile", zap.Error(err))
		}

		log.Info("memory profile written", zap.String("file", memProfileFile))
	}

	for _, profileType := range types {
		switch profileType {
		case "block", "mutex", "goroutine":
			writeProfile(log, profileType, fmt.Sprintf("%s/%s.prof", *outputDir, profileType))
		}
	}

	log.Info("profiling completed")
}

// runWorkload repeats one round of every transformation on a generated frame
// until ctx expires and returns the number of completed rounds
func runWorkload(ctx context.Context, cfg *config.Config, log *zap.Logger, tr *tracing) (int, error) {
	frame, err := sample.NewBuilder(cfg, log, nil).Build(ctx)
	if err != nil {
		return 0, err
	}

	rounds := 0
	for {
		select {
		case <-ctx.Done():
			return rounds, nil
		default:
		}

		roundCtx, span := tr.span(ctx, "round", attribute.Int("round", rounds), attribute.Int("rows", frame.IndexLen()))
		err := runRound(roundCtx, frame, cfg, tr)
		if err != nil {
			span.RecordError(err)
		}
		span.End()
		if err != nil {
			return rounds, err
		}
		rounds++
	}
}

func runRound(ctx context.Context, frame *columnar.Frame, cfg *config.Config, tr *tracing) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"reindex", func() error {
			_, err := columnar.Reindex[float64](frame, sample.ColumnPrice, "OLD_INDEX")
			return err
		}},
		{"reindex_view", func() error {
			_, err := columnar.ReindexView[int32](frame, sample.ColumnVolume, "OLD_INDEX")
			return err
		}},
		{"nlargest", func() error {
			_, err := visitors.NLargestColumn[float64](frame, sample.ColumnPrice, cfg.TopK.Capacity)
			return err
		}},
		{"align", func() error {
			means, err := sample.PeriodMeans[float64](frame, sample.ColumnPrice, 5)
			if err != nil {
				return err
			}
			return columnar.LoadAlignColumn(frame, "price_period_mean", means, 5, true, math.NaN())
		}},
		{"retype", func() error {
			if err := columnar.Retype[int64, int32](frame, sample.ColumnTrades); err != nil {
				return err
			}
			return columnar.Retype[int32, int64](frame, sample.ColumnTrades)
		}},
	}

	for _, step := range steps {
		_, span := tr.span(ctx, step.name)
		err := step.run()
		if err != nil {
			span.RecordError(err)
		}
		span.End()
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// writeProfile writes a named runtime profile to filename
func writeProfile(log *zap.Logger, profileName, filename string) {
	profile := pprof.Lookup(profileName)
	if profile == nil {
		log.Warn("profile not found", zap.String("profile", profileName))
		return
	}

	f, err := os.Create(filename)
	if err != nil {
		log.Error("failed to create profile", zap.String("profile", profileName), zap.Error(err))
		return
	}
	defer f.Close()

	if err := profile.WriteTo(f, 0); err != nil {
		log.Error("failed to write profile", zap.String("profile", profileName), zap.Error(err))
		return
	}

	log.Info("profile written", zap.String("profile", profileName), zap.String("file", filename))
}

// parseProfileTypes parses the profile types string
func parseProfileTypes(typesStr string) []string {
	if typesStr == "all" {
		return []string{"cpu", "memory", "block", "mutex", "goroutine"}
	}

	parts := strings.Split(typesStr, ",")
	types := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "cpu", "memory", "mem", "block", "mutex", "goroutine":
			if part == "mem" {
				part = "memory"
			}
			types = append(types, part)
		}
	}

	return types
}
