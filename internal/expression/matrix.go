// Package expression holds the expression matrix and sample label types that
// feed the analysis core, plus loaders for the delimited formats they
// typically arrive in.
package expression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var nan = math.NaN()

// Sample class labels. Labels are aligned positionally with the matrix's
// sample axis.
const (
	Control = 0
	Tumor   = 1
)

// Labels is an ordered binary label vector, one entry per sample.
type Labels []int

// Validate checks that every label is a known class.
func (l Labels) Validate() error {
	for i, v := range l {
		if v != Control && v != Tumor {
			return fmt.Errorf("label at position %d is %d, want %d (control) or %d (tumor)", i, v, Control, Tumor)
		}
	}
	return nil
}

// Counts returns the number of control and tumor samples.
func (l Labels) Counts() (controls, tumors int) {
	for _, v := range l {
		if v == Tumor {
			tumors++
		} else {
			controls++
		}
	}
	return controls, tumors
}

// HasBothClasses reports whether at least one control and one tumor sample
// are present. AUC is undefined otherwise.
func (l Labels) HasBothClasses() bool {
	controls, tumors := l.Counts()
	return controls > 0 && tumors > 0
}

// Matrix is a genes x samples expression matrix. Missing measurements are
// stored as NaN. Gene identifiers are unique and keep their input order,
// which downstream ranking relies on for stable tie-breaking.
type Matrix struct {
	genes   []string
	index   map[string]int
	samples []string
	data    *mat.Dense
}

// NewMatrix builds a Matrix from row-major values. len(values) must equal
// len(genes)*len(samples); gene identifiers must not repeat.
func NewMatrix(genes, samples []string, values []float64) (*Matrix, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("matrix has zero genes")
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("matrix has zero samples")
	}
	if len(values) != len(genes)*len(samples) {
		return nil, fmt.Errorf("have %d values, want %d (%d genes x %d samples)",
			len(values), len(genes)*len(samples), len(genes), len(samples))
	}

	index := make(map[string]int, len(genes))
	for i, g := range genes {
		if g == "" {
			return nil, fmt.Errorf("empty gene identifier at row %d", i)
		}
		if prev, ok := index[g]; ok {
			return nil, fmt.Errorf("duplicate gene identifier %q at rows %d and %d", g, prev, i)
		}
		index[g] = i
	}

	return &Matrix{
		genes:   genes,
		index:   index,
		samples: samples,
		data:    mat.NewDense(len(genes), len(samples), values),
	}, nil
}

// NumGenes returns the number of genes (rows).
func (m *Matrix) NumGenes() int { return len(m.genes) }

// NumSamples returns the number of samples (columns).
func (m *Matrix) NumSamples() int { return len(m.samples) }

// Genes returns the gene identifiers in row order.
func (m *Matrix) Genes() []string { return m.genes }

// Samples returns the sample identifiers in column order.
func (m *Matrix) Samples() []string { return m.samples }

// GeneID returns the identifier of the gene at row i.
func (m *Matrix) GeneID(i int) string { return m.genes[i] }

// Row copies the expression vector of the gene at row i into dst, allocating
// when dst is nil.
func (m *Matrix) Row(dst []float64, i int) []float64 {
	return mat.Row(dst, i, m.data)
}

// Gene returns the expression vector for a gene identifier.
func (m *Matrix) Gene(id string) ([]float64, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return m.Row(nil, i), true
}

// MissingFraction returns the fraction of NaN entries in the matrix.
func (m *Matrix) MissingFraction() float64 {
	rows, cols := m.data.Dims()
	missing := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsNaN(m.data.At(i, j)) {
				missing++
			}
		}
	}
	return float64(missing) / float64(rows*cols)
}
