package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/montecarlo/die"
)

type RollCmd struct {
	DieFlags

	Count int `short:"n" default:"10" help:"Number of rolls"`
}

func (c *RollCmd) Run(globals *Globals) error {
	logger := globals.Logger()

	rng, err := c.source(logger)
	if err != nil {
		return err
	}
	d, err := c.newDie(rng, logger)
	if err != nil {
		return err
	}

	rolls, err := d.Roll(c.Count)
	if err != nil {
		return err
	}
	printRolls(os.Stdout, d, rolls)
	return nil
}

func printRolls(w io.Writer, d *die.Die, rolls []die.Face) {
	fmt.Fprintln(w, headerStyle.Render("Die"))
	printDie(w, d)

	labels := make([]string, len(rolls))
	for i, f := range rolls {
		labels[i] = f.String()
	}
	fmt.Fprintf(w, "\n%s\n%s\n", headerStyle.Render(fmt.Sprintf("Rolls (%d)", len(rolls))), strings.Join(labels, " "))

	tally := make(map[die.Face]int, d.Len())
	for _, f := range rolls {
		tally[f]++
	}
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Tally"))
	tw := newTabWriter(w)
	for _, f := range d.Faces() {
		fmt.Fprintf(tw, "%s\t%d\n", faceStyle.Render(f.String()), tally[f])
	}
	tw.Flush()
}
