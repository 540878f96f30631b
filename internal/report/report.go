// Package report writes the delimited-text artifacts consumed by downstream
// interpretation steps.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	"github.com/hepalab/aucrank/internal/analysis"
)

// RankedGeneRow is one line of the ranked-genes table.
type RankedGeneRow struct {
	Rank           int     `csv:"rank"`
	Gene           string  `csv:"gene"`
	AUC            float64 `csv:"auc"`
	UsableControls int     `csv:"usable_controls"`
	UsableTumors   int     `csv:"usable_tumors"`
}

// BootstrapRow is one line of the bootstrap-validation table.
type BootstrapRow struct {
	Gene            string  `csv:"gene"`
	PointAUC        float64 `csv:"auc"`
	MeanAUC         float64 `csv:"bootstrap_mean_auc"`
	StdDev          float64 `csv:"bootstrap_std_dev"`
	CILower         float64 `csv:"ci_lower"`
	CIUpper         float64 `csv:"ci_upper"`
	Confidence      float64 `csv:"confidence"`
	ValidIterations int     `csv:"valid_iterations"`
	Skipped         int     `csv:"skipped_iterations"`
}

// EnrichmentRow is one line of the functional-enrichment table.
type EnrichmentRow struct {
	Source           string  `csv:"source"`
	TermID           string  `csv:"term_id"`
	TermName         string  `csv:"term_name"`
	PValue           float64 `csv:"p_value"`
	IntersectionSize int     `csv:"intersection_size"`
}

// DegenerateRow is one line of the unusable-genes diagnostic table.
type DegenerateRow struct {
	Gene           string `csv:"gene"`
	UsableControls int    `csv:"usable_controls"`
	UsableTumors   int    `csv:"usable_tumors"`
	Reason         string `csv:"reason"`
}

func writeCSV(path string, rows any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("wrote report")
	return nil
}

// WriteRankingCSV writes the ranked gene scores.
func WriteRankingCSV(path string, scores []analysis.GeneScore) error {
	rows := make([]RankedGeneRow, len(scores))
	for i, s := range scores {
		rows[i] = RankedGeneRow{
			Rank:           i + 1,
			Gene:           s.Gene,
			AUC:            s.AUC,
			UsableControls: s.Controls,
			UsableTumors:   s.Tumors,
		}
	}
	return writeCSV(path, &rows)
}

// WriteDegenerateCSV writes the diagnostic table of genes excluded from the
// ranking.
func WriteDegenerateCSV(path string, degenerate []analysis.DegenerateGene) error {
	rows := make([]DegenerateRow, len(degenerate))
	for i, d := range degenerate {
		rows[i] = DegenerateRow{
			Gene:           d.Gene,
			UsableControls: d.Controls,
			UsableTumors:   d.Tumors,
			Reason:         d.Reason,
		}
	}
	return writeCSV(path, &rows)
}

// WriteBootstrapCSV writes the per-gene bootstrap validation table.
func WriteBootstrapCSV(path string, rows []BootstrapRow) error {
	return writeCSV(path, &rows)
}

// WriteEnrichmentCSV writes the functional-enrichment table.
func WriteEnrichmentCSV(path string, rows []EnrichmentRow) error {
	return writeCSV(path, &rows)
}
