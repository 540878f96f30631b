package analysis

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hepalab/aucrank/internal/expression"
)

// BootstrapAUC estimates the sampling variability of one gene's AUC by
// nonparametric bootstrap: it resamples the (expression, label) pairs with
// replacement Iterations times and recomputes the AUC on each resample.
// Resamples holding a single class contribute no value and are counted in
// Distribution.Skipped rather than dropped silently.
//
// Each iteration derives its generator from (Seed, iteration index), so the
// distribution is bit-reproducible for the same seed, data, and iteration
// count, independent of how the loop is scheduled.
func BootstrapAUC(values []float64, labels expression.Labels, opts BootstrapOptions) (*Distribution, error) {
	n := len(values)
	if n != len(labels) {
		return nil, fmt.Errorf("%w: %d values but %d labels", ErrInvalidInput, n, len(labels))
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, have %d", ErrInvalidInput, n)
	}
	if err := labels.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !labels.HasBothClasses() {
		return nil, fmt.Errorf("%w: labels contain a single class, bootstrap can never succeed", ErrInvalidInput)
	}

	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultBootstrapIterations
	}

	dist := &Distribution{
		AUCs:       make([]float64, 0, iterations),
		Iterations: iterations,
		Seed:       opts.Seed,
	}

	resampledValues := make([]float64, n)
	resampledLabels := make(expression.Labels, n)
	pairBuf := make([]scoredPair, 0, n)

	for iter := 0; iter < iterations; iter++ {
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(iter)))
		for i := 0; i < n; i++ {
			idx := rng.IntN(n)
			resampledValues[i] = values[idx]
			resampledLabels[i] = labels[idx]
		}
		if !resampledLabels.HasBothClasses() {
			dist.Skipped++
			continue
		}
		auc, controls, tumors := aucRank(resampledValues, resampledLabels, pairBuf)
		if controls == 0 || tumors == 0 || math.IsNaN(auc) {
			// Both classes present but missing values left one side empty.
			dist.Skipped++
			continue
		}
		dist.AUCs = append(dist.AUCs, auc)
	}

	if len(dist.AUCs) == 0 {
		return nil, fmt.Errorf("%w: all %d bootstrap iterations skipped", ErrDegenerateResult, dist.Skipped)
	}
	return dist, nil
}
