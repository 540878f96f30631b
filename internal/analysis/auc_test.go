package analysis

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/hepalab/aucrank/internal/expression"
)

func TestAUC(t *testing.T) {
	nan := math.NaN()

	for _, tc := range []struct {
		name   string
		values []float64
		labels expression.Labels
		want   float64
	}{
		{
			name:   "perfect separation",
			values: []float64{1, 2, 3, 10, 11, 12},
			labels: expression.Labels{0, 0, 0, 1, 1, 1},
			want:   1.0,
		},
		{
			name:   "perfect anti-separation",
			values: []float64{10, 11, 12, 1, 2, 3},
			labels: expression.Labels{0, 0, 0, 1, 1, 1},
			want:   0.0,
		},
		{
			name:   "all values identical",
			values: []float64{5, 5, 5, 5, 5, 5},
			labels: expression.Labels{0, 0, 0, 1, 1, 1},
			want:   0.5,
		},
		{
			name:   "partial overlap with ties",
			values: []float64{1, 2, 2, 2, 3, 4},
			labels: expression.Labels{0, 0, 1, 1, 1, 1},
			// tumors {2,2,3,4} vs controls {1,2}: 6 wins + 2 ties over 8 pairs
			want: 0.875,
		},
		{
			name:   "missing value excluded pairwise",
			values: []float64{1, 2, 3, nan, 11, 12},
			labels: expression.Labels{0, 0, 0, 1, 1, 1},
			// the NaN tumor sample drops out; 2 tumors vs 3 controls remain
			want: 1.0,
		},
		{
			name:   "interleaved",
			values: []float64{1, 2, 3, 4, 5, 6},
			labels: expression.Labels{0, 1, 0, 1, 0, 1},
			want:   6.0 / 9.0,
		},
	} {
		got, err := AUC(tc.values, tc.labels)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("%s: AUC = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAUCSymmetry(t *testing.T) {
	values := []float64{1.2, 7.4, 3.3, 3.3, 9.1, 0.5, 4.4, 6.2}
	labels := expression.Labels{0, 1, 0, 1, 1, 0, 0, 1}

	flipped := make(expression.Labels, len(labels))
	for i, v := range labels {
		flipped[i] = 1 - v
	}

	auc, err := AUC(values, labels)
	if err != nil {
		t.Fatal(err)
	}
	aucFlipped, err := AUC(values, flipped)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(auc+aucFlipped-1) > 1e-12 {
		t.Fatalf("AUC(labels) + AUC(flipped) = %v + %v, want 1", auc, aucFlipped)
	}
}

func TestAUCMonotonicInvariance(t *testing.T) {
	values := []float64{0.1, 2.5, 1.7, 8.2, 3.3, 5.5, 4.1, 9.9}
	labels := expression.Labels{0, 0, 1, 1, 0, 1, 0, 1}

	transformed := make([]float64, len(values))
	for i, v := range values {
		transformed[i] = math.Exp(v / 3)
	}

	auc, err := AUC(values, labels)
	if err != nil {
		t.Fatal(err)
	}
	aucTransformed, err := AUC(transformed, labels)
	if err != nil {
		t.Fatal(err)
	}
	if auc != aucTransformed {
		t.Fatalf("AUC changed under monotonic rescaling: %v vs %v", auc, aucTransformed)
	}
}

func TestAUCNoSeparation(t *testing.T) {
	// Identically distributed classes should average out to roughly 0.5.
	rng := rand.New(rand.NewPCG(7, 7))
	const trials = 200
	const n = 40

	sum := 0.0
	for trial := 0; trial < trials; trial++ {
		values := make([]float64, n)
		labels := make(expression.Labels, n)
		for i := range values {
			values[i] = rng.Float64()
			labels[i] = i % 2
		}
		auc, err := AUC(values, labels)
		if err != nil {
			t.Fatal(err)
		}
		sum += auc
	}
	if mean := sum / trials; math.Abs(mean-0.5) > 0.02 {
		t.Fatalf("mean AUC over %d null trials = %v, want about 0.5", trials, mean)
	}
}

func TestAUCErrors(t *testing.T) {
	nan := math.NaN()

	for _, tc := range []struct {
		name   string
		values []float64
		labels expression.Labels
		want   error
	}{
		{"length mismatch", []float64{1, 2}, expression.Labels{0, 1, 1}, ErrInvalidInput},
		{"empty", nil, nil, ErrInvalidInput},
		{"single class", []float64{1, 2, 3}, expression.Labels{1, 1, 1}, ErrInvalidInput},
		{"unknown label", []float64{1, 2}, expression.Labels{0, 2}, ErrInvalidInput},
		{"all values missing", []float64{nan, nan, nan, nan}, expression.Labels{0, 0, 1, 1}, ErrDegenerateResult},
		{"one class entirely missing", []float64{nan, nan, 1, 2}, expression.Labels{0, 0, 1, 1}, ErrDegenerateResult},
	} {
		if _, err := AUC(tc.values, tc.labels); !errors.Is(err, tc.want) {
			t.Fatalf("%s: error = %v, want %v", tc.name, err, tc.want)
		}
	}
}
