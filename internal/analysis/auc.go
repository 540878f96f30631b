package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/hepalab/aucrank/internal/expression"
)

// AUC computes the area under the ROC curve for one gene, treating its
// expression values as a continuous predictor of the sample labels. It equals
// the probability that a randomly chosen tumor sample has strictly higher
// expression than a randomly chosen control sample, with ties counting one
// half (the Mann-Whitney U statistic normalized by the product of the class
// sizes), so it is invariant to monotonic rescaling. Pairs whose expression
// value is NaN are excluded and never coerced to a sentinel.
func AUC(values []float64, labels expression.Labels) (float64, error) {
	if len(values) != len(labels) {
		return math.NaN(), fmt.Errorf("%w: %d values but %d labels", ErrInvalidInput, len(values), len(labels))
	}
	if len(values) == 0 {
		return math.NaN(), fmt.Errorf("%w: empty expression vector", ErrInvalidInput)
	}
	if err := labels.Validate(); err != nil {
		return math.NaN(), fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !labels.HasBothClasses() {
		return math.NaN(), fmt.Errorf("%w: labels contain a single class", ErrInvalidInput)
	}
	auc, controls, tumors := aucRank(values, labels, nil)
	if controls == 0 || tumors == 0 {
		return math.NaN(), fmt.Errorf("%w: %d usable controls and %d usable tumors after missing-value exclusion",
			ErrDegenerateResult, controls, tumors)
	}
	return auc, nil
}

type scoredPair struct {
	v     float64
	tumor bool
}

// aucRank is the allocation-light core shared by the ranker and the bootstrap
// loop. buf may be a reused scratch slice. When either class ends up with no
// usable observation the AUC is NaN and the returned counts say which.
func aucRank(values []float64, labels expression.Labels, buf []scoredPair) (auc float64, controls, tumors int) {
	pairs := buf[:0]
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		tumor := labels[i] == expression.Tumor
		if tumor {
			tumors++
		} else {
			controls++
		}
		pairs = append(pairs, scoredPair{v: v, tumor: tumor})
	}
	if controls == 0 || tumors == 0 {
		return math.NaN(), controls, tumors
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })

	// Rank sum over the tumor class, averaging ranks across ties. Ranks are
	// 1-based, so a run occupying positions i..j-1 has average rank (i+j+1)/2.
	rankSum := 0.0
	for i := 0; i < len(pairs); {
		j := i
		for j < len(pairs) && pairs[j].v == pairs[i].v {
			j++
		}
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			if pairs[k].tumor {
				rankSum += avgRank
			}
		}
		i = j
	}

	nt, nc := float64(tumors), float64(controls)
	u := rankSum - nt*(nt+1)/2
	return u / (nt * nc), controls, tumors
}
