package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	d := &Distribution{AUCs: []float64{0.6, 0.7, 0.8, 0.9, 1.0}}

	s, err := d.Summarize(0.95)
	require.NoError(t, err)

	assert.InDelta(t, 0.8, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(0.025), s.StdDev, 1e-12)
	assert.Equal(t, 5, s.N)
	assert.Equal(t, 0.95, s.Confidence)
	assert.GreaterOrEqual(t, s.Lower, 0.6)
	assert.LessOrEqual(t, s.Upper, 1.0)
	assert.LessOrEqual(t, s.Lower, s.Upper)
}

func TestSummarizeConstantDistribution(t *testing.T) {
	d := &Distribution{AUCs: []float64{0.75, 0.75, 0.75, 0.75}}

	s, err := d.Summarize(0.9)
	require.NoError(t, err)
	assert.Equal(t, 0.75, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.75, s.Lower)
	assert.Equal(t, 0.75, s.Upper)
}

func TestSummarizeErrors(t *testing.T) {
	var nilDist *Distribution
	_, err := nilDist.Summarize(0.95)
	assert.ErrorIs(t, err, ErrDegenerateResult)

	_, err = (&Distribution{}).Summarize(0.95)
	assert.ErrorIs(t, err, ErrDegenerateResult)

	d := &Distribution{AUCs: []float64{0.5, 0.6}}
	_, err = d.Summarize(0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = d.Summarize(1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
