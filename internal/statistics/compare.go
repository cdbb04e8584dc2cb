package statistics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Comparison contains the results of comparing replicate jackpot rates of two games
type Comparison struct {
	Difference float64 // Mean difference (first minus second)
	StdError   float64 // Standard error of difference
	TStatistic float64
	DF         int     // Welch degrees of freedom
	PValue     float64 // Two-tailed
	EffectSize float64 // Cohen's d
	CI95Low    float64
	CI95High   float64
}

// Compare runs a Welch t-test on the per-replicate jackpot rates of a and b
func Compare(a, b *Statistics) Comparison {
	difference := a.Mean() - b.Mean()

	pooled := pooledStdDev(a.StdDev(), a.Replicates, b.StdDev(), b.Replicates)
	effectSize := 0.0
	if pooled > 0 {
		effectSize = difference / pooled
	}

	se := math.Sqrt(a.StdError()*a.StdError() + b.StdError()*b.StdError())
	df := welchDF(a.StdDev(), a.Replicates, b.StdDev(), b.Replicates)

	c := Comparison{
		Difference: difference,
		StdError:   se,
		DF:         df,
		EffectSize: effectSize,
		PValue:     1,
		CI95Low:    difference,
		CI95High:   difference,
	}
	if se == 0 || df <= 0 {
		return c
	}

	c.TStatistic = difference / se
	t := distuv.StudentsT{Nu: float64(df), Mu: 0, Sigma: 1}
	c.PValue = math.Min(1, 2*t.Survival(math.Abs(c.TStatistic)))

	margin := t.Quantile(0.975) * se
	c.CI95Low = difference - margin
	c.CI95High = difference + margin
	return c
}

func pooledStdDev(sd1 float64, n1 int, sd2 float64, n2 int) float64 {
	if n1+n2 <= 2 {
		return 0
	}
	pooledVar := (float64(n1-1)*sd1*sd1 + float64(n2-1)*sd2*sd2) / float64(n1+n2-2)
	return math.Sqrt(pooledVar)
}

// welchDF approximates degrees of freedom for unequal variances
func welchDF(sd1 float64, n1 int, sd2 float64, n2 int) int {
	if n1 <= 1 || n2 <= 1 {
		return 0
	}

	v1 := sd1 * sd1 / float64(n1)
	v2 := sd2 * sd2 / float64(n2)
	denominator := (v1*v1)/float64(n1-1) + (v2*v2)/float64(n2-1)
	if denominator == 0 {
		return n1 + n2 - 2
	}
	return int(math.Floor((v1 + v2) * (v1 + v2) / denominator))
}

// InterpretEffectSize returns a human-readable interpretation of Cohen's d
func InterpretEffectSize(d float64) string {
	absd := math.Abs(d)
	switch {
	case absd < 0.2:
		return "negligible"
	case absd < 0.5:
		return "small"
	case absd < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// InterpretPValue returns a human-readable interpretation of p-value
func InterpretPValue(p float64, alpha float64) string {
	switch {
	case p < 0.001:
		return "highly significant"
	case p < 0.01:
		return "very significant"
	case p < alpha:
		return "significant"
	case p < 0.10:
		return "marginally significant"
	default:
		return "not significant"
	}
}
