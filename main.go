package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/dendrite/config"
	"github.com/pthm-cable/dendrite/dla"
	"github.com/pthm-cable/dendrite/lattice"
	"github.com/pthm-cable/dendrite/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	particles := flag.Uint64("particles", 0, "Generation target (0 = use config)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config; config 0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for run artifacts (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	sorted := flag.Bool("sorted", false, "Write the aggregate in generation order")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *particles > 0 {
		cfg.Simulation.Particles = *particles
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *sorted {
		cfg.Output.Sorted = true
	}

	// Set up seed
	runSeed := cfg.Simulation.Seed
	if runSeed == 0 {
		runSeed = uint64(time.Now().UnixNano())
	}
	cfg.Simulation.Seed = runSeed

	agg, drain, err := buildAggregate(cfg.Simulation)
	if err != nil {
		slog.Error("failed to build aggregate", "error", err)
		os.Exit(1)
	}
	agg.Reseed(runSeed)

	om, err := telemetry.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}

	at, _ := agg.Attractor()
	target := cfg.Simulation.Particles
	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	radii := telemetry.NewRadiiRecorder(target, cfg.Telemetry.RadiiPoints)

	slog.Info("starting generation",
		"dimension", cfg.Simulation.Dimension,
		"lattice", agg.Lattice().String(),
		"attractor", at.String(),
		"coeff_stick", agg.CoeffStick(),
		"particles", target,
		"seed", runSeed,
		"continuous", cfg.Simulation.Continuous,
	)

	// Producer: the generation loop. The main goroutine is the consumer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		agg.Generate(target)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	start := time.Now()
	ticker := time.NewTicker(time.Duration(cfg.Telemetry.PollInterval * float64(time.Second)))
	defer ticker.Stop()

	cursor := 0
	running := true
	for running {
		select {
		case <-done:
			running = false
		case <-sigCh:
			slog.Info("abort requested")
			agg.RaiseAbort()
		case <-ticker.C:
			cursor += drain(cursor)
			status := telemetry.Sample(agg, time.Since(start))
			radii.Observe(status.Size, boundingRadius(at, status.Span))
			if stats, ok := collector.Observe(status); ok {
				if *logStats {
					slog.Info("window",
						"particles", stats.Particles,
						"added", stats.Added,
						"particles_per_sec", stats.GrowthRate,
						"failed_stick_draws", stats.Misses,
						"span", stats.Span,
					)
				}
				if err := om.WriteWindow(stats); err != nil {
					slog.Error("telemetry write failed", "error", err)
				}
			}
		}
	}

	// Final drain and summary
	cursor += drain(cursor)
	status := telemetry.Sample(agg, time.Since(start))
	radii.Observe(status.Size, boundingRadius(at, status.Span))

	summary := []any{
		"particles", status.Size,
		"consumed", cursor,
		"span", status.Span,
		"failed_stick_draws", status.Misses,
		"elapsed", status.Elapsed.Round(time.Millisecond).String(),
		"dimension_estimate", agg.EstimateFractalDimension(),
	}
	if fitted, ok := radii.FitDimension(); ok {
		summary = append(summary, "dimension_fit", fitted)
	}
	slog.Info("run complete", summary...)

	if om != nil {
		if err := writeArtifacts(om, cfg, agg, radii); err != nil {
			slog.Error("failed to write artifacts", "error", err)
			os.Exit(1)
		}
		slog.Info("artifacts written", "dir", om.Dir())
	}
}

// buildAggregate constructs the configured aggregate and a drain function
// that consumes its buffer from a cursor, returning the particle count
// read.
func buildAggregate(s config.SimulationConfig) (dla.Aggregate, func(int) int, error) {
	lt, err := lattice.ParseType(s.Lattice)
	if err != nil {
		return nil, nil, err
	}
	at, err := lattice.ParseAttractor(s.Attractor)
	if err != nil {
		return nil, nil, err
	}

	if s.Dimension == 3 {
		d, err := dla.New3DWithGeometry(lt, at, s.AttractorSize, s.CoeffStick)
		if err != nil {
			return nil, nil, err
		}
		if err := d.SetSpawnSource(s.SpawnAbove, s.SpawnBelow); err != nil {
			return nil, nil, err
		}
		d.SetContinuous(s.Continuous)
		return d, func(c int) int { return len(d.ConsumeBuffer(c)) }, nil
	}

	d, err := dla.New2DWithGeometry(lt, at, s.AttractorSize, s.CoeffStick)
	if err != nil {
		return nil, nil, err
	}
	if err := d.SetSpawnSource(s.SpawnAbove, s.SpawnBelow); err != nil {
		return nil, nil, err
	}
	d.SetContinuous(s.Continuous)
	return d, func(c int) int { return len(d.ConsumeBuffer(c)) }, nil
}

// boundingRadius converts the span metric to a linear radius: the root of
// the squared-distance metrics, or the raw z extent for a plane attractor.
func boundingRadius(at lattice.Attractor, span int64) float64 {
	if at == lattice.AttractorPlane {
		return float64(span)
	}
	return math.Sqrt(float64(span))
}

func writeArtifacts(om *telemetry.OutputManager, cfg *config.Config, agg dla.Aggregate, radii *telemetry.RadiiRecorder) error {
	if err := om.WriteRadii(radii.Samples()); err != nil {
		return err
	}
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}
	f, err := om.CreateFile("aggregate.tsv")
	if err != nil {
		return err
	}
	if err := agg.Write(f, cfg.Output.Sorted); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return om.Close()
}
