package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/montecarlo/analysis"
	"github.com/lox/montecarlo/game"
	"github.com/lox/montecarlo/internal/statistics"
)

// Factory builds a fresh game whose dice draw from the given seed.
type Factory func(seed uint64) (*game.Game, error)

// Config holds configuration for running simulations
type Config struct {
	Name       string
	Build      Factory
	Trials     int
	Replicates int
	Seed       uint64
	Timeout    time.Duration // zero disables the deadline
	Logger     *log.Logger
	Clock      quartz.Clock
}

// Report is the outcome of a completed simulation
type Report struct {
	Name    string
	Stats   *statistics.Statistics
	Last    *analysis.Analyzer // analyzer over the final replicate's game
	Elapsed time.Duration
}

// Simulator replays a game across independently seeded replicates
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}
}

func (s *Simulator) validate() error {
	switch {
	case s.config.Build == nil:
		return errors.New("simulator: no game factory")
	case s.config.Trials <= 0:
		return fmt.Errorf("simulator: trials must be positive, got %d", s.config.Trials)
	case s.config.Replicates <= 0:
		return fmt.Errorf("simulator: replicates must be positive, got %d", s.config.Replicates)
	}
	return nil
}

// Run executes every replicate in order and returns aggregated results.
// Replicate i is seeded with Seed+i so any replicate can be replayed alone.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		timer := s.config.Clock.AfterFunc(s.config.Timeout, cancel)
		defer timer.Stop()
	}

	logger := s.config.Logger.With("game", s.config.Name)
	start := s.config.Clock.Now()
	stats := &statistics.Statistics{}
	var last *analysis.Analyzer

	for rep := 0; rep < s.config.Replicates; rep++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stopped before replicate %d: %w", rep+1, err)
		}

		seed := s.config.Seed + uint64(rep)
		result, a, err := s.playReplicate(seed)
		if err != nil {
			return nil, fmt.Errorf("replicate %d (seed %d): %w", rep+1, seed, err)
		}
		logger.Debug("Replicate complete",
			"replicate", rep+1,
			"seed", seed,
			"jackpots", result.Jackpots,
			"combos", result.DistinctCombos)

		stats.Add(result)
		last = a
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	report := &Report{
		Name:    s.config.Name,
		Stats:   stats,
		Last:    last,
		Elapsed: s.config.Clock.Since(start),
	}
	logger.Info("Simulation complete",
		"replicates", stats.Replicates,
		"trials", stats.Trials,
		"jackpots", stats.Jackpots,
		"elapsed", report.Elapsed)
	return report, nil
}

// playReplicate builds, plays and analyzes one game
func (s *Simulator) playReplicate(seed uint64) (statistics.ReplicateResult, *analysis.Analyzer, error) {
	g, err := s.config.Build(seed)
	if err != nil {
		return statistics.ReplicateResult{}, nil, fmt.Errorf("build game: %w", err)
	}
	if err := g.Play(s.config.Trials); err != nil {
		return statistics.ReplicateResult{}, nil, fmt.Errorf("play: %w", err)
	}
	a, err := analysis.New(g)
	if err != nil {
		return statistics.ReplicateResult{}, nil, fmt.Errorf("analyze: %w", err)
	}

	return statistics.ReplicateResult{
		Seed:           seed,
		Trials:         s.config.Trials,
		Jackpots:       a.Jackpot(),
		DistinctCombos: len(a.Combo()),
	}, a, nil
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, name string, build Factory, trials, replicates int, seed uint64, logger *log.Logger) (*Report, error) {
	config := Config{
		Name:       name,
		Build:      build,
		Trials:     trials,
		Replicates: replicates,
		Seed:       seed,
		Logger:     logger,
	}

	simulator := New(config)
	return simulator.Run(ctx)
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, report *Report) {
	stats := report.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS: %s ===\n", report.Name)
	fmt.Fprintf(w, "Replicates: %d, trials: %d, elapsed: %v\n", stats.Replicates, stats.Trials, report.Elapsed)

	fmt.Fprintf(w, "\n=== JACKPOT RATE ===\n")
	fmt.Fprintf(w, "Pooled: %.6f (%d/%d)\n", stats.PooledRate(), stats.Jackpots, stats.Trials)
	fmt.Fprintf(w, "Mean: %.6f\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.6f\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.6f\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.6f\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.6f, %.6f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.4f, P25=%.4f, P75=%.4f, P95=%.4f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Range: [%.6f, %.6f]\n", stats.MinRate, stats.MaxRate)

	fmt.Fprintf(w, "\n=== COMBINATIONS ===\n")
	fmt.Fprintf(w, "Distinct per replicate: %.1f avg, %d max\n", stats.MeanCombos(), stats.MaxCombos)
	if report.Last == nil {
		return
	}
	combos := report.Last.Combos()
	for i, c := range combos {
		if i == 5 {
			fmt.Fprintf(w, "... %d more\n", len(combos)-i)
			break
		}
		fmt.Fprintf(w, "%s: %d\n", c, c.Count)
	}
}

// PrintComparison writes a Welch t-test of other's jackpot rate against base's
func PrintComparison(w io.Writer, base, other *Report) {
	c := statistics.Compare(other.Stats, base.Stats)
	fmt.Fprintf(w, "\n=== %s vs %s ===\n", other.Name, base.Name)
	fmt.Fprintf(w, "Difference: %+.6f (95%% CI [%.6f, %.6f])\n", c.Difference, c.CI95Low, c.CI95High)
	fmt.Fprintf(w, "t=%.3f df=%d p=%.4f (%s)\n", c.TStatistic, c.DF, c.PValue, statistics.InterpretPValue(c.PValue, 0.05))
	fmt.Fprintf(w, "Effect size: %.3f (%s)\n", c.EffectSize, statistics.InterpretEffectSize(c.EffectSize))
}
