package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/montecarlo/analysis"
	"github.com/lox/montecarlo/die"
	"github.com/lox/montecarlo/game"
)

var (
	// Style definitions
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	faceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	jackpotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	percentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printDie lists each face with its weight and probability
func printDie(w io.Writer, d *die.Die) {
	probs, err := d.Probabilities()
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "FACE\tWEIGHT\tP")
	for _, fw := range d.Describe() {
		p := "-"
		if err == nil {
			p = percentStyle.Render(fmt.Sprintf("%.2f%%", probs[fw.Face]*100))
		}
		fmt.Fprintf(tw, "%s\t%g\t%s\n", faceStyle.Render(fw.Face.String()), fw.Weight, p)
	}
	tw.Flush()
}

// printResults writes the play table one trial per row, or stacked one
// roll per row.
func printResults(w io.Writer, g *game.Game, stacked bool) {
	tw := newTabWriter(w)
	defer tw.Flush()

	if stacked {
		fmt.Fprintln(tw, "TRIAL\tDIE\tFACE")
		for _, e := range g.Stacked() {
			fmt.Fprintf(tw, "%d\t%d\t%s\n", e.Trial, e.Die, e.Face)
		}
		return
	}

	table := g.Results()
	fmt.Fprint(tw, "TRIAL")
	for d := range table.Dice() {
		fmt.Fprintf(tw, "\tDIE %d", d+1)
	}
	fmt.Fprintln(tw)
	for n := range table.Trials() {
		fmt.Fprintf(tw, "%d", n+1)
		for _, f := range table.Row(n) {
			fmt.Fprintf(tw, "\t%s", f)
		}
		fmt.Fprintln(tw)
	}
}

// printAnalysis writes jackpots, combinations, face counts and, for numeric
// games, per-die summaries and fit tests.
func printAnalysis(w io.Writer, a *analysis.Analyzer, permutations bool) {
	trials := a.Game().Results().Trials()
	jackpots := a.Jackpot()
	rate := 0.0
	if trials > 0 {
		rate = float64(jackpots) / float64(trials)
	}
	fmt.Fprintf(w, "\n%s %s\n", headerStyle.Render("Jackpots:"),
		jackpotStyle.Render(fmt.Sprintf("%d/%d (%.2f%%)", jackpots, trials, rate*100)))

	title, counts := "Combinations", a.Combo()
	if permutations {
		title, counts = "Permutations", a.Permutations()
	}
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render(title))
	tw := newTabWriter(w)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c, c.Count)
	}
	tw.Flush()

	fc := a.FaceCounts()
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Face counts"))
	tw = newTabWriter(w)
	fmt.Fprint(tw, "FACE")
	for d := range fc.Dice() {
		fmt.Fprintf(tw, "\tDIE %d", d+1)
	}
	fmt.Fprintln(tw, "\tTOTAL")
	for _, f := range fc.Faces() {
		fmt.Fprint(tw, faceStyle.Render(f.String()))
		for d := range fc.Dice() {
			fmt.Fprintf(tw, "\t%d", fc.Count(f, d))
		}
		fmt.Fprintf(tw, "\t%d\n", fc.Total(f))
	}
	tw.Flush()

	if a.FaceType() != die.KindNumeric || trials == 0 {
		return
	}

	summaries, err := a.Summary()
	if err != nil {
		fmt.Fprintln(w, warnStyle.Render(err.Error()))
		return
	}
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Summary"))
	tw = newTabWriter(w)
	fmt.Fprintln(tw, "DIE\tMEAN\tMEDIAN\tSTDDEV\tMIN\tMAX\tCHI2\tP")
	for _, s := range summaries {
		fit, err := a.GoodnessOfFit(s.Die)
		chi, p := "-", "-"
		if err == nil {
			chi = fmt.Sprintf("%.3f", fit.Statistic)
			p = fmt.Sprintf("%.4f", fit.PValue)
			if fit.PValue < 0.01 {
				p = warnStyle.Render(p)
			}
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\t%g\t%g\t%s\t%s\n",
			s.Die+1, s.Mean, s.Median, s.StdDev, s.Min, s.Max, chi, p)
	}
	tw.Flush()
}
