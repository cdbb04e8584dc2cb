package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lox/montecarlo/analysis"
	"github.com/lox/montecarlo/die"
	"github.com/lox/montecarlo/game"
	"github.com/lox/montecarlo/internal/fileutil"
)

type PlayCmd struct {
	DieFlags

	Dice         int    `short:"d" default:"2" help:"Number of dice in the game"`
	Trials       int    `short:"n" default:"10" help:"Number of trials"`
	Stacked      bool   `help:"Print one row per roll instead of one per trial"`
	Quiet        bool   `short:"q" help:"Skip the per-trial table"`
	Permutations bool   `short:"p" help:"Count ordered outcomes instead of combinations"`
	Out          string `short:"o" type:"path" help:"Also write the stacked results as CSV to this file"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	logger := globals.Logger()

	if c.Dice < 1 {
		return fmt.Errorf("%w: need at least one die, got %d", die.ErrInvalidArgument, c.Dice)
	}
	rng, err := c.source(logger)
	if err != nil {
		return err
	}

	dice := make([]*die.Die, c.Dice)
	for i := range dice {
		if dice[i], err = c.newDie(rng, logger); err != nil {
			return err
		}
	}
	g, err := game.Of(dice...)
	if err != nil {
		return err
	}

	logger.Debug("Playing", "dice", c.Dice, "trials", c.Trials)
	if err := g.Play(c.Trials); err != nil {
		return err
	}

	a, err := analysis.New(g)
	if err != nil {
		return err
	}
	c.print(os.Stdout, a)

	if c.Out != "" {
		if err := writeStackedCSV(c.Out, g); err != nil {
			return err
		}
		logger.Info("Wrote results", "file", c.Out, "rows", len(g.Stacked()))
	}
	return nil
}

// writeStackedCSV writes one row per roll, replacing path atomically
func writeStackedCSV(path string, g *game.Game) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"trial", "die", "face"}); err != nil {
			return err
		}
		for _, e := range g.Stacked() {
			rec := []string{strconv.Itoa(e.Trial), strconv.Itoa(e.Die), e.Face.String()}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func (c *PlayCmd) print(w io.Writer, a *analysis.Analyzer) {
	fmt.Fprintln(w, headerStyle.Render("Die"))
	if d, ok := a.Game().Dice()[0].(*die.Die); ok {
		printDie(w, d)
	}
	if !c.Quiet {
		fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Results"))
		printResults(w, a.Game(), c.Stacked)
	}
	printAnalysis(w, a, c.Permutations)
}
