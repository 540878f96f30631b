package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepalab/aucrank/internal/analysis"
)

func TestWriteRankingCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ranked_genes.csv")

	err := WriteRankingCSV(path, []analysis.GeneScore{
		{Gene: "GPC3", AUC: 0.97, Controls: 240, Tumors: 260},
		{Gene: "TP53", AUC: 0.81, Controls: 243, Tumors: 268},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,gene,auc,usable_controls,usable_tumors", lines[0])
	assert.Equal(t, "1,GPC3,0.97,240,260", lines[1])
	assert.Equal(t, "2,TP53,0.81,243,268", lines[2])
}

func TestWriteBootstrapCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bootstrap.csv")

	err := WriteBootstrapCSV(path, []BootstrapRow{
		{Gene: "GPC3", PointAUC: 0.97, MeanAUC: 0.964, StdDev: 0.011, CILower: 0.94, CIUpper: 0.98, Confidence: 0.95, ValidIterations: 1000},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "bootstrap_mean_auc")
	assert.Contains(t, string(raw), "GPC3")
}

func TestWriteDegenerateCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "degenerate.csv")

	err := WriteDegenerateCSV(path, []analysis.DegenerateGene{
		{Gene: "LINC0001", Reason: "all expression values missing"},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "LINC0001")
	assert.Contains(t, string(raw), "all expression values missing")
}
