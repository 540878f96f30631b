package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hepalab/aucrank/internal/expression"
)

type geneResult struct {
	row        int
	score      GeneScore
	degenerate *DegenerateGene
}

// RankGenes scores every gene of m by AUC and returns the genes ordered by
// descending score. Genes are scored independently across a worker pool; each
// worker accumulates into a private buffer and the buffers are merged at the
// end, so ties in AUC keep the genes' relative matrix row order. Genes whose
// expression is entirely missing, or whose missing-value exclusion leaves a
// single class, are reported under Ranking.Degenerate instead of aborting the
// pass.
//
// Cancellation is cooperative: when ctx is done, no further genes are
// dispatched and the partial ranking is returned with Cancelled set.
func RankGenes(ctx context.Context, m *expression.Matrix, labels expression.Labels, opts RankOptions) (*Ranking, error) {
	if m == nil || m.NumGenes() == 0 || m.NumSamples() == 0 {
		return nil, fmt.Errorf("%w: empty expression matrix", ErrInvalidInput)
	}
	if len(labels) != m.NumSamples() {
		return nil, fmt.Errorf("%w: %d labels for %d samples", ErrInvalidInput, len(labels), m.NumSamples())
	}
	if err := labels.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !labels.HasBothClasses() {
		return nil, fmt.Errorf("%w: labels contain a single class", ErrInvalidInput)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > m.NumGenes() {
		workers = m.NumGenes()
	}

	start := time.Now()
	rows := make(chan int)
	perWorker := make([][]geneResult, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var exprBuf []float64
			pairBuf := make([]scoredPair, 0, m.NumSamples())
			for row := range rows {
				exprBuf = m.Row(exprBuf, row)
				perWorker[w] = append(perWorker[w], scoreGene(m.GeneID(row), row, exprBuf, labels, pairBuf))
			}
		}(w)
	}

	cancelled := false
feed:
	for row := 0; row < m.NumGenes(); row++ {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		case rows <- row:
		}
	}
	close(rows)
	wg.Wait()

	var all []geneResult
	for _, part := range perWorker {
		all = append(all, part...)
	}
	// Restore matrix row order before the stable sort so equal-AUC genes keep
	// their input order.
	sort.Slice(all, func(i, j int) bool { return all[i].row < all[j].row })

	ranking := &Ranking{Cancelled: cancelled}
	for _, r := range all {
		if r.degenerate != nil {
			ranking.Degenerate = append(ranking.Degenerate, *r.degenerate)
			continue
		}
		ranking.Scores = append(ranking.Scores, r.score)
	}
	sort.SliceStable(ranking.Scores, func(i, j int) bool {
		return ranking.Scores[i].AUC > ranking.Scores[j].AUC
	})
	if opts.TopN > 0 && len(ranking.Scores) > opts.TopN {
		ranking.Scores = ranking.Scores[:opts.TopN]
	}

	log.Info().
		Int("genes", m.NumGenes()).
		Int("ranked", len(ranking.Scores)).
		Int("degenerate", len(ranking.Degenerate)).
		Int("workers", workers).
		Bool("cancelled", cancelled).
		Dur("elapsed", time.Since(start)).
		Msg("gene ranking pass finished")

	return ranking, nil
}

func scoreGene(gene string, row int, values []float64, labels expression.Labels, pairBuf []scoredPair) geneResult {
	auc, controls, tumors := aucRank(values, labels, pairBuf)
	if controls == 0 || tumors == 0 {
		reason := "one class has no usable observations after missing-value exclusion"
		if controls == 0 && tumors == 0 {
			reason = "all expression values missing"
		}
		return geneResult{row: row, degenerate: &DegenerateGene{
			Gene:     gene,
			Controls: controls,
			Tumors:   tumors,
			Reason:   reason,
		}}
	}
	return geneResult{row: row, score: GeneScore{
		Gene:     gene,
		AUC:      auc,
		Controls: controls,
		Tumors:   tumors,
	}}
}
