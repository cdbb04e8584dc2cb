package simulator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/montecarlo/die"
	"github.com/lox/montecarlo/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

// coins builds a game of n fair coins seeded from seed
func coins(n int) Factory {
	return func(seed uint64) (*game.Game, error) {
		dice := make([]*die.Die, n)
		for i := range dice {
			d, err := die.New(die.Texts("heads", "tails"), die.WithSeed(seed+uint64(i)))
			if err != nil {
				return nil, err
			}
			dice[i] = d
		}
		return game.Of(dice...)
	}
}

func TestNew(t *testing.T) {
	config := Config{
		Name:       "coins",
		Build:      coins(2),
		Trials:     100,
		Replicates: 3,
		Seed:       12345,
	}

	simulator := New(config)
	if simulator == nil {
		t.Fatal("New() returned nil")
	}
	if simulator.config.Trials != 100 {
		t.Errorf("Expected 100 trials, got %d", simulator.config.Trials)
	}
	if simulator.config.Seed != 12345 {
		t.Errorf("Expected seed 12345, got %d", simulator.config.Seed)
	}
	if simulator.config.Logger == nil {
		t.Error("Expected a default logger")
	}
	if simulator.config.Clock == nil {
		t.Error("Expected a default clock")
	}
}

func TestSimulator_Run(t *testing.T) {
	mockClock := quartz.NewMock(t)
	config := Config{
		Name:       "coins",
		Build:      coins(3),
		Trials:     50,
		Replicates: 4,
		Seed:       7,
		Logger:     quietLogger(),
		Clock:      mockClock,
	}

	report, err := New(config).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if report.Name != "coins" {
		t.Errorf("Expected name 'coins', got %s", report.Name)
	}
	if report.Stats.Replicates != 4 {
		t.Errorf("Expected 4 replicates, got %d", report.Stats.Replicates)
	}
	if report.Stats.Trials != 200 {
		t.Errorf("Expected 200 trials, got %d", report.Stats.Trials)
	}
	if report.Stats.Jackpots > report.Stats.Trials {
		t.Errorf("Jackpots %d exceed trials %d", report.Stats.Jackpots, report.Stats.Trials)
	}
	if report.Stats.MaxCombos > 4 {
		t.Errorf("Three coins have 4 unordered combinations, saw %d", report.Stats.MaxCombos)
	}
	if report.Last == nil {
		t.Fatal("Expected analyzer for last replicate")
	}
	if report.Elapsed != 0 {
		t.Errorf("Expected no elapsed time on a mock clock, got %v", report.Elapsed)
	}
}

func TestSimulator_RunDeterministic(t *testing.T) {
	config := Config{
		Build:      coins(4),
		Trials:     200,
		Replicates: 5,
		Seed:       99,
		Logger:     quietLogger(),
	}

	first, err := New(config).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	second, err := New(config).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	for i := range first.Stats.Values {
		if first.Stats.Values[i] != second.Stats.Values[i] {
			t.Errorf("Replicate %d differs: %f vs %f", i+1, first.Stats.Values[i], second.Stats.Values[i])
		}
	}
}

func TestSimulator_RunInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"no factory", Config{Trials: 1, Replicates: 1}},
		{"zero trials", Config{Build: coins(1), Replicates: 1}},
		{"zero replicates", Config{Build: coins(1), Trials: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.config).Run(context.Background()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSimulator_RunFactoryError(t *testing.T) {
	boom := errors.New("boom")
	config := Config{
		Build: func(seed uint64) (*game.Game, error) {
			if seed == 3 {
				return nil, boom
			}
			return coins(2)(seed)
		},
		Trials:     10,
		Replicates: 5,
		Seed:       1,
		Logger:     quietLogger(),
	}

	_, err := New(config).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected factory error, got %v", err)
	}
	if !strings.Contains(err.Error(), "replicate 3") {
		t.Errorf("Expected error to name replicate 3, got %v", err)
	}
}

func TestSimulator_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Build: coins(2), Trials: 10, Replicates: 2, Logger: quietLogger()}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestSimulator_RunTimeout(t *testing.T) {
	ctx := context.Background()
	mockClock := quartz.NewMock(t)
	timeout := 5 * time.Second

	build := coins(2)
	config := Config{
		Build: func(seed uint64) (*game.Game, error) {
			if seed == 1 {
				// Deadline passes while the second replicate is built
				mockClock.Advance(timeout).MustWait(ctx)
			}
			return build(seed)
		},
		Trials:     10,
		Replicates: 5,
		Timeout:    timeout,
		Logger:     quietLogger(),
		Clock:      mockClock,
	}

	_, err := New(config).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cancellation after timeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "replicate 3") {
		t.Errorf("Expected to stop before replicate 3, got %v", err)
	}
}

func TestRunSimulation_Convenience(t *testing.T) {
	report, err := RunSimulation(context.Background(), "pair", coins(2), 20, 3, 42, quietLogger())
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}
	if report.Stats.Replicates != 3 {
		t.Errorf("Expected 3 replicates, got %d", report.Stats.Replicates)
	}
}

func TestPrintSummary(t *testing.T) {
	report, err := RunSimulation(context.Background(), "pair", coins(2), 20, 3, 42, quietLogger())
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	out := buf.String()

	for _, want := range []string{"RESULTS: pair", "JACKPOT RATE", "95% CI", "COMBINATIONS", "heads"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintComparison(t *testing.T) {
	fair, err := RunSimulation(context.Background(), "fair", coins(2), 50, 5, 1, quietLogger())
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}
	triple, err := RunSimulation(context.Background(), "triple", coins(3), 50, 5, 1, quietLogger())
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}

	var buf bytes.Buffer
	PrintComparison(&buf, fair, triple)
	out := buf.String()
	for _, want := range []string{"triple vs fair", "Difference:", "Effect size:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Comparison missing %q:\n%s", want, out)
		}
	}
}
