// Package analysis contains the statistical core: per-gene ROC/AUC scoring,
// gene ranking, and bootstrap validation of AUC estimates.
package analysis

import "errors"

var (
	// ErrInvalidInput marks caller contract violations: mismatched lengths,
	// missing classes, empty matrices. Not retryable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateResult marks well-formed requests that cannot produce a
	// meaningful statistic, e.g. every bootstrap iteration skipped.
	ErrDegenerateResult = errors.New("degenerate result")
)

// GeneScore is one gene's discriminative score. AUC is always defined and in
// [0,1]; genes whose AUC cannot be computed become DegenerateGene entries
// instead.
type GeneScore struct {
	Gene     string  `json:"gene"`
	AUC      float64 `json:"auc"`
	Controls int     `json:"usable_controls"` // control samples left after missing-value exclusion
	Tumors   int     `json:"usable_tumors"`   // tumor samples left after missing-value exclusion
}

// DegenerateGene records a gene excluded from the ranking together with why
// it was unusable.
type DegenerateGene struct {
	Gene     string `json:"gene"`
	Controls int    `json:"usable_controls"`
	Tumors   int    `json:"usable_tumors"`
	Reason   string `json:"reason"`
}

// Ranking is the result of a ranking pass: scores sorted by descending AUC
// (stable with respect to matrix row order on ties), plus diagnostics for the
// genes that could not be scored. Cancelled is set when the pass was aborted
// cooperatively and Scores holds only the genes processed so far.
type Ranking struct {
	Scores     []GeneScore      `json:"scores"`
	Degenerate []DegenerateGene `json:"degenerate,omitempty"`
	Cancelled  bool             `json:"cancelled,omitempty"`
}

// RankOptions tunes a ranking pass.
type RankOptions struct {
	// TopN truncates the ranked output when > 0.
	TopN int
	// Workers caps the number of concurrent gene scorers; <= 0 means
	// GOMAXPROCS.
	Workers int
}

// BootstrapOptions tunes a bootstrap run.
type BootstrapOptions struct {
	// Iterations is the number of resamples; <= 0 means
	// DefaultBootstrapIterations.
	Iterations int
	// Seed fixes the resampling sequence. The same seed, data, and iteration
	// count reproduce the distribution exactly.
	Seed uint64
}

// Distribution is the empirical AUC distribution from a bootstrap run.
// Skipped counts iterations whose resample held only one class; those
// contribute no value.
type Distribution struct {
	AUCs       []float64 `json:"aucs"`
	Skipped    int       `json:"skipped"`
	Iterations int       `json:"iterations"`
	Seed       uint64    `json:"seed"`
}

// Summary condenses a Distribution for reporting.
type Summary struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Lower      float64 `json:"ci_lower"`
	Upper      float64 `json:"ci_upper"`
	Confidence float64 `json:"confidence"`
	N          int     `json:"n"`
}
