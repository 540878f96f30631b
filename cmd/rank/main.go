package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/hepalab/aucrank/internal/config"
	"github.com/hepalab/aucrank/internal/enrichment"
	"github.com/hepalab/aucrank/internal/expression"
	"github.com/hepalab/aucrank/internal/pipeline"
	"github.com/hepalab/aucrank/internal/utils/logger"
)

func main() {
	logger.Init()

	matrixPath := flag.String("matrix", "", "expression matrix (TSV or GCT, optionally gzipped)")
	labelsPath := flag.String("labels", "", "two-column sample/group TSV")
	outDir := flag.String("out", "", "artifact directory (overrides OUTPUT_DIR)")
	flag.Parse()

	if *matrixPath == "" || *labelsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	m, err := loadMatrix(*matrixPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *matrixPath).Msg("failed to load expression matrix")
	}

	labels, err := expression.LoadLabels(*labelsPath, m.Samples(), cfg.TumorGroup)
	if err != nil {
		log.Fatal().Err(err).Str("path", *labelsPath).Msg("failed to load sample labels")
	}

	var enricher enrichment.Service = enrichment.Disabled{}
	if cfg.EnrichmentURL != "" {
		client, err := enrichment.NewClient(&cfg.EnrichmentEnvConfig)
		if err != nil {
			log.Error().Err(err).Msg("failed to init enrichment client, continuing without enrichment")
		} else {
			enricher = client
		}
	}

	res, err := pipeline.New(&cfg.AnalysisEnvConfig, enricher).Run(ctx, m, labels)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis run failed")
	}

	if err := pipeline.WriteArtifacts(res, cfg.OutputDir); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.OutputDir).Msg("failed to write run artifacts")
	}

	log.Info().
		Int("ranked", len(res.Ranking.Scores)).
		Int("degenerate", len(res.Ranking.Degenerate)).
		Int("validated", len(res.Validations)).
		Bool("cancelled", res.Ranking.Cancelled).
		Str("dir", cfg.OutputDir).
		Msg("run complete")
}

func loadMatrix(path string) (*expression.Matrix, error) {
	name := strings.TrimSuffix(path, ".gz")
	if strings.HasSuffix(name, ".gct") {
		return expression.LoadMatrixGCT(path)
	}
	return expression.LoadMatrixTSV(path)
}
