package analysis

const (
	// DefaultBootstrapIterations is used when BootstrapOptions.Iterations is
	// not positive.
	DefaultBootstrapIterations = 1000

	// DefaultConfidence is the confidence level for percentile intervals.
	DefaultConfidence = 0.95
)
