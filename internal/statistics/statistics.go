package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// ReplicateResult represents the outcome of one independently seeded game
type ReplicateResult struct {
	Seed           uint64 // RNG seed for this replicate (for replay)
	Trials         int    // Trials played
	Jackpots       int    // Trials where every die matched
	DistinctCombos int    // Distinct unordered face combinations seen
}

// JackpotRate returns the fraction of trials that were jackpots
func (r ReplicateResult) JackpotRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Jackpots) / float64(r.Trials)
}

// Statistics aggregates jackpot rates across replicates of the same game
type Statistics struct {
	Replicates int
	SumRate    float64
	SumRate2   float64   // Sum of squares for variance calculation
	Values     []float64 // Per-replicate jackpot rates for median/percentiles

	// Pooled counts across every replicate
	Trials   int
	Jackpots int

	// Combination spread
	SumCombos int
	MaxCombos int

	// Extremes
	MinRate float64
	MaxRate float64
}

// Mean returns the mean jackpot rate per replicate
func (s *Statistics) Mean() float64 {
	if s.Replicates == 0 {
		return 0
	}
	return s.SumRate / float64(s.Replicates)
}

// Variance returns the sample variance of replicate jackpot rates
func (s *Statistics) Variance() float64 {
	if s.Replicates < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumRate2 - float64(s.Replicates)*mean*mean) / float64(s.Replicates-1)
	return math.Max(v, 0) // guard tiny negative rounding
}

// StdDev returns the sample standard deviation of replicate jackpot rates
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Replicates == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Replicates))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	se := s.StdError()
	margin := 1.96 * se // 95% confidence
	return mean - margin, mean + margin
}

// PooledRate returns jackpots over trials across all replicates
func (s *Statistics) PooledRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Jackpots) / float64(s.Trials)
}

// MeanCombos returns the average number of distinct combinations per replicate
func (s *Statistics) MeanCombos() float64 {
	if s.Replicates == 0 {
		return 0
	}
	return float64(s.SumCombos) / float64(s.Replicates)
}

// Add incorporates a new replicate result into the statistics
func (s *Statistics) Add(result ReplicateResult) {
	rate := result.JackpotRate()
	if s.Replicates == 0 || rate < s.MinRate {
		s.MinRate = rate
	}
	if s.Replicates == 0 || rate > s.MaxRate {
		s.MaxRate = rate
	}

	s.Replicates++
	s.SumRate += rate
	s.SumRate2 += rate * rate
	s.Values = append(s.Values, rate)

	s.Trials += result.Trials
	s.Jackpots += result.Jackpots

	s.SumCombos += result.DistinctCombos
	if result.DistinctCombos > s.MaxCombos {
		s.MaxCombos = result.DistinctCombos
	}
}

// Median returns the median replicate jackpot rate
func (s *Statistics) Median() float64 {
	m, err := stats.Median(s.Values)
	if err != nil {
		return 0
	}
	return m
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate performs consistency checks on the aggregated data
func (s *Statistics) Validate() error {
	if s.Replicates <= 0 {
		return fmt.Errorf("invalid replicate count: %d", s.Replicates)
	}

	if len(s.Values) != s.Replicates {
		return fmt.Errorf("values array length (%d) does not match replicate count (%d)",
			len(s.Values), s.Replicates)
	}

	if s.Jackpots > s.Trials {
		return fmt.Errorf("jackpots (%d) exceed trials (%d)", s.Jackpots, s.Trials)
	}

	if s.MinRate < 0 || s.MaxRate > 1 || s.MinRate > s.MaxRate {
		return fmt.Errorf("jackpot rate range [%.6f, %.6f] is invalid", s.MinRate, s.MaxRate)
	}

	return nil
}
