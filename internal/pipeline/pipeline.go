// Package pipeline wires the analysis stages together: rank genes by AUC,
// bootstrap-validate the top candidates, query functional enrichment, and
// write run artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hepalab/aucrank/internal/analysis"
	"github.com/hepalab/aucrank/internal/config"
	"github.com/hepalab/aucrank/internal/enrichment"
	"github.com/hepalab/aucrank/internal/expression"
)

// Pipeline runs the full biomarker analysis for one dataset.
type Pipeline struct {
	cfg      *config.AnalysisEnvConfig
	enricher enrichment.Service
}

// New constructs a Pipeline. Pass enrichment.Disabled{} when no enrichment
// service is configured.
func New(cfg *config.AnalysisEnvConfig, enricher enrichment.Service) *Pipeline {
	return &Pipeline{cfg: cfg, enricher: enricher}
}

// GeneValidation is the bootstrap verdict for one top-ranked gene. Error
// carries the diagnostic when the bootstrap could not produce a distribution;
// it never aborts the run.
type GeneValidation struct {
	Gene     string           `json:"gene"`
	PointAUC float64          `json:"auc"`
	Summary  analysis.Summary `json:"summary"`
	Skipped  int              `json:"skipped_iterations"`
	Valid    int              `json:"valid_iterations"`
	Seed     uint64           `json:"seed"`
	Error    string           `json:"error,omitempty"`
}

// Result is everything a run produced.
type Result struct {
	Ranking     *analysis.Ranking `json:"ranking"`
	Validations []GeneValidation  `json:"validations"`
	Terms       []enrichment.Term `json:"enrichment,omitempty"`
	Genes       int               `json:"genes"`
	Samples     int               `json:"samples"`
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
}

// Run executes ranking, validation, and enrichment. Cancellation mid-ranking
// yields a partial result with Ranking.Cancelled set; validation and
// enrichment are then skipped.
func (p *Pipeline) Run(ctx context.Context, m *expression.Matrix, labels expression.Labels) (*Result, error) {
	res := &Result{
		StartedAt: time.Now(),
		Genes:     m.NumGenes(),
		Samples:   m.NumSamples(),
	}

	ranking, err := analysis.RankGenes(ctx, m, labels, analysis.RankOptions{
		TopN:    p.cfg.TopN,
		Workers: p.cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("rank genes: %w", err)
	}
	res.Ranking = ranking

	if ranking.Cancelled {
		log.Warn().Msg("ranking cancelled, skipping bootstrap validation and enrichment")
		res.FinishedAt = time.Now()
		return res, nil
	}

	res.Validations = p.validate(ctx, m, labels, ranking.Scores)

	if p.enricher.Enabled() && len(ranking.Scores) > 0 {
		genes := make([]string, len(ranking.Scores))
		for i, s := range ranking.Scores {
			genes[i] = s.Gene
		}
		terms, err := p.enricher.Enrich(ctx, genes)
		if err != nil {
			// Enrichment is an external service; its failure must not lose
			// the statistical results.
			log.Error().Err(err).Msg("enrichment query failed, continuing without terms")
		} else {
			res.Terms = terms
		}
	}

	res.FinishedAt = time.Now()
	log.Info().
		Int("ranked", len(res.Ranking.Scores)).
		Int("validated", len(res.Validations)).
		Int("terms", len(res.Terms)).
		Dur("elapsed", res.FinishedAt.Sub(res.StartedAt)).
		Msg("analysis run finished")
	return res, nil
}

// validate bootstraps each top-ranked gene. Genes are independent, so they
// fan out across workers; each gene's seed is derived from the configured
// base seed and the gene's rank, keeping the run reproducible regardless of
// scheduling.
func (p *Pipeline) validate(ctx context.Context, m *expression.Matrix, labels expression.Labels, scores []analysis.GeneScore) []GeneValidation {
	workers := p.cfg.Workers
	if workers <= 0 || workers > len(scores) {
		workers = min(8, len(scores))
	}
	if workers == 0 {
		return nil
	}

	validations := make([]GeneValidation, len(scores))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				validations[i] = p.validateGene(m, labels, i, scores[i])
			}
		}()
	}

	dispatched := 0
feed:
	for i := range scores {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()

	// Jobs are dispatched in rank order, so a cancelled run has filled
	// exactly the first dispatched slots.
	return validations[:dispatched]
}

func (p *Pipeline) validateGene(m *expression.Matrix, labels expression.Labels, rank int, score analysis.GeneScore) GeneValidation {
	v := GeneValidation{
		Gene:     score.Gene,
		PointAUC: score.AUC,
		Seed:     p.cfg.BootstrapSeed ^ uint64(rank),
	}

	values, ok := m.Gene(score.Gene)
	if !ok {
		v.Error = "gene disappeared from matrix"
		return v
	}

	dist, err := analysis.BootstrapAUC(values, labels, analysis.BootstrapOptions{
		Iterations: p.cfg.BootstrapIterations,
		Seed:       v.Seed,
	})
	if err != nil {
		if errors.Is(err, analysis.ErrDegenerateResult) {
			log.Warn().Str("gene", score.Gene).Err(err).Msg("bootstrap produced no valid iterations")
		} else {
			log.Error().Str("gene", score.Gene).Err(err).Msg("bootstrap failed")
		}
		v.Error = err.Error()
		return v
	}

	v.Skipped = dist.Skipped
	v.Valid = len(dist.AUCs)

	summary, err := dist.Summarize(analysis.DefaultConfidence)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.Summary = summary
	return v
}
