package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lox/montecarlo/die"
)

// DieSummary describes the numeric faces one die showed
type DieSummary struct {
	Die    int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary returns descriptive statistics for each die of a numeric game.
// Text faces have no numeric summary and fail with die.ErrInvalidArgument.
func (a *Analyzer) Summary() ([]DieSummary, error) {
	if a.faceType != die.KindNumeric {
		return nil, fmt.Errorf("%w: summary needs numeric faces, game has %s faces", die.ErrInvalidArgument, a.faceType)
	}
	table := a.game.Results()
	if table.Empty() {
		return nil, fmt.Errorf("%w: game has not been played", die.ErrInvalidArgument)
	}

	out := make([]DieSummary, table.Dice())
	for d := range out {
		values := make(stats.Float64Data, 0, table.Trials())
		for _, f := range table.Column(d) {
			v, _ := f.Float()
			values = append(values, v)
		}

		s := DieSummary{Die: d}
		var err error
		if s.Mean, err = stats.Mean(values); err != nil {
			return nil, fmt.Errorf("die %d mean: %w", d+1, err)
		}
		if s.Median, err = stats.Median(values); err != nil {
			return nil, fmt.Errorf("die %d median: %w", d+1, err)
		}
		if s.StdDev, err = stats.StandardDeviation(values); err != nil {
			return nil, fmt.Errorf("die %d stddev: %w", d+1, err)
		}
		if s.Min, err = stats.Min(values); err != nil {
			return nil, fmt.Errorf("die %d min: %w", d+1, err)
		}
		if s.Max, err = stats.Max(values); err != nil {
			return nil, fmt.Errorf("die %d max: %w", d+1, err)
		}
		out[d] = s
	}
	return out, nil
}

// FitResult is a Pearson chi-square test of one die's observed face counts
// against the probabilities implied by its current weights.
type FitResult struct {
	Die              int
	Faces            []die.Face
	Observed         []float64
	Expected         []float64
	Statistic        float64
	DegreesOfFreedom int
	PValue           float64
}

// GoodnessOfFit tests whether die d (0-based) rolled consistently with its
// weights. Faces with zero weight are left out of the test; observing one of
// them makes the statistic infinite. Weights are read when this is called,
// so changing weights after Play changes the test.
func (a *Analyzer) GoodnessOfFit(d int) (FitResult, error) {
	dice := a.game.Dice()
	if d < 0 || d >= len(dice) {
		return FitResult{}, fmt.Errorf("%w: die %d out of range [0,%d)", die.ErrInvalidArgument, d, len(dice))
	}
	table := a.game.Results()
	if table.Empty() {
		return FitResult{}, fmt.Errorf("%w: game has not been played", die.ErrInvalidArgument)
	}

	desc := dice[d].Describe()
	probs, err := die.Probabilities(desc)
	if err != nil {
		return FitResult{}, fmt.Errorf("die %d: %w", d+1, err)
	}

	counts := a.countFaces()
	n := float64(table.Trials())
	res := FitResult{Die: d}
	for _, fw := range desc {
		p := probs[fw.Face]
		obs := float64(counts.Count(fw.Face, d))
		if p == 0 {
			if obs > 0 {
				res.Faces = append(res.Faces, fw.Face)
				res.Observed = append(res.Observed, obs)
				res.Expected = append(res.Expected, 0)
			}
			continue
		}
		res.Faces = append(res.Faces, fw.Face)
		res.Observed = append(res.Observed, obs)
		res.Expected = append(res.Expected, p*n)
		res.DegreesOfFreedom++
	}
	res.DegreesOfFreedom = max(res.DegreesOfFreedom-1, 0)

	res.Statistic = stat.ChiSquare(res.Observed, res.Expected)
	switch {
	case math.IsInf(res.Statistic, 1):
		res.PValue = 0
		return res, nil
	case res.DegreesOfFreedom == 0:
		res.PValue = 1
		return res, nil
	}
	res.PValue = distuv.ChiSquared{K: float64(res.DegreesOfFreedom)}.Survival(res.Statistic)
	return res, nil
}
