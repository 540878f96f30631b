package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summarize condenses the distribution into mean, standard deviation, and a
// percentile confidence interval at the given level (e.g. 0.95 for a
// 2.5th/97.5th percentile interval).
func (d *Distribution) Summarize(confidence float64) (Summary, error) {
	if d == nil || len(d.AUCs) == 0 {
		return Summary{}, fmt.Errorf("%w: empty AUC distribution", ErrDegenerateResult)
	}
	if confidence <= 0 || confidence >= 1 {
		return Summary{}, fmt.Errorf("%w: confidence %v outside (0,1)", ErrInvalidInput, confidence)
	}

	s := Summary{
		Mean:       stat.Mean(d.AUCs, nil),
		Confidence: confidence,
		N:          len(d.AUCs),
	}
	if s.N > 1 {
		s.StdDev = stat.StdDev(d.AUCs, nil)
	}

	// Nearest-rank percentiles stay defined for small distributions, where
	// interpolated percentiles are not.
	alpha := (1 - confidence) / 2
	lower, err := stats.PercentileNearestRank(d.AUCs, 100*alpha)
	if err != nil {
		return Summary{}, fmt.Errorf("lower percentile: %w", err)
	}
	upper, err := stats.PercentileNearestRank(d.AUCs, 100*(1-alpha))
	if err != nil {
		return Summary{}, fmt.Errorf("upper percentile: %w", err)
	}
	s.Lower, s.Upper = lower, upper

	return s, nil
}
