package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/montecarlo/internal/config"
	"github.com/lox/montecarlo/internal/simulator"
)

type RunCmd struct {
	File    string        `arg:"" type:"existingfile" help:"Experiment file (HCL)"`
	Game    []string      `short:"g" help:"Games to run (default: all)"`
	Seed    *uint64       `help:"Override the file's seed"`
	Timeout time.Duration `default:"0s" help:"Stop each game after this long (0 for no limit)"`
}

func (c *RunCmd) Run(globals *Globals) error {
	logger := globals.Logger()

	exp, err := config.Load(c.File)
	if err != nil {
		return err
	}
	if err := exp.Validate(); err != nil {
		return fmt.Errorf("invalid experiment: %w", err)
	}
	if c.Seed != nil {
		exp.Seed = c.Seed
	}
	seed, err := exp.SeedOrRandom()
	if err != nil {
		return err
	}
	logger.Info("Using seed", "seed", seed)

	names := c.Game
	if len(names) == 0 {
		for _, g := range exp.Games {
			names = append(names, g.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("%s defines no games", c.File)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := quartz.NewReal()
	var reports []*simulator.Report
	for _, name := range names {
		gc := exp.GetGameByName(name)
		if gc == nil {
			return fmt.Errorf("unknown game %s", name)
		}
		build, err := exp.Factory(name, logger)
		if err != nil {
			return err
		}

		sim := simulator.New(simulator.Config{
			Name:       name,
			Build:      build,
			Trials:     gc.Trials,
			Replicates: gc.Replicates,
			Seed:       seed,
			Timeout:    c.Timeout,
			Logger:     logger,
			Clock:      clock,
		})
		report, err := sim.Run(ctx)
		if err != nil {
			return fmt.Errorf("game %s: %w", name, err)
		}
		simulator.PrintSummary(os.Stdout, report)
		reports = append(reports, report)
	}

	for _, other := range reports[1:] {
		simulator.PrintComparison(os.Stdout, reports[0], other)
	}
	return nil
}
