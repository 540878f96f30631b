package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/hepalab/aucrank/internal/report"
)

// Artifact filenames written under the output directory.
const (
	RankingFile    = "ranked_genes.csv"
	DegenerateFile = "degenerate_genes.csv"
	BootstrapFile  = "bootstrap_validation.csv"
	EnrichmentFile = "enrichment_terms.csv"
	RunFile        = "run.json"
)

// WriteArtifacts persists a run: the ranked-genes, bootstrap, degenerate and
// enrichment tables plus a JSON summary of the whole run.
func WriteArtifacts(res *Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	if err := report.WriteRankingCSV(filepath.Join(dir, RankingFile), res.Ranking.Scores); err != nil {
		return err
	}
	if len(res.Ranking.Degenerate) > 0 {
		if err := report.WriteDegenerateCSV(filepath.Join(dir, DegenerateFile), res.Ranking.Degenerate); err != nil {
			return err
		}
	}

	if len(res.Validations) > 0 {
		rows := make([]report.BootstrapRow, len(res.Validations))
		for i, v := range res.Validations {
			rows[i] = report.BootstrapRow{
				Gene:            v.Gene,
				PointAUC:        v.PointAUC,
				MeanAUC:         v.Summary.Mean,
				StdDev:          v.Summary.StdDev,
				CILower:         v.Summary.Lower,
				CIUpper:         v.Summary.Upper,
				Confidence:      v.Summary.Confidence,
				ValidIterations: v.Valid,
				Skipped:         v.Skipped,
			}
		}
		if err := report.WriteBootstrapCSV(filepath.Join(dir, BootstrapFile), rows); err != nil {
			return err
		}
	}

	if len(res.Terms) > 0 {
		rows := make([]report.EnrichmentRow, len(res.Terms))
		for i, t := range res.Terms {
			rows[i] = report.EnrichmentRow{
				Source:           t.Source,
				TermID:           t.TermID,
				TermName:         t.TermName,
				PValue:           t.PValue,
				IntersectionSize: t.IntersectionSize,
			}
		}
		if err := report.WriteEnrichmentCSV(filepath.Join(dir, EnrichmentFile), rows); err != nil {
			return err
		}
	}

	raw, err := sonic.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	runPath := filepath.Join(dir, RunFile)
	if err := os.WriteFile(runPath, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", runPath, err)
	}

	log.Info().Str("dir", dir).Msg("run artifacts written")
	return nil
}
