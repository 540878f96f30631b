// Package config defines environment configuration structs and loaders.
package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type AppConfig struct {
	ServerEnvConfig
	EnrichmentEnvConfig
	AnalysisEnvConfig
	ReportEnvConfig
}

func LoadConfig(ctx context.Context) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ServerEnvConfig configures the HTTP API server.
type ServerEnvConfig struct {
	Address       string `env:"SERVER_ADDRESS, default=127.0.0.1"`
	Port          int    `env:"SERVER_PORT, default=8080"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT, default=16777216"`
}

// EnrichmentEnvConfig configures access to the external functional-enrichment
// service. An empty URL disables enrichment.
type EnrichmentEnvConfig struct {
	EnrichmentURL     string        `env:"ENRICHMENT_API_URL"`
	EnrichmentTimeout time.Duration `env:"ENRICHMENT_TIMEOUT, default=15s"`
	Organism          string        `env:"ENRICHMENT_ORGANISM, default=hsapiens"`
}

// AnalysisEnvConfig configures the ranking and bootstrap runtime.
type AnalysisEnvConfig struct {
	Environment         string `env:"ENVIRONMENT, default=dev"`
	Workers             int    `env:"ANALYSIS_WORKERS"` // 0 means GOMAXPROCS
	TopN                int    `env:"RANK_TOP_N, default=50"`
	BootstrapIterations int    `env:"BOOTSTRAP_ITERATIONS, default=1000"`
	BootstrapSeed       uint64 `env:"BOOTSTRAP_SEED, default=1"`
	TumorGroup          string `env:"TUMOR_GROUP, default=tumor"`
}

// ReportEnvConfig configures where run artifacts are written.
type ReportEnvConfig struct {
	OutputDir string `env:"OUTPUT_DIR, default=out"`
}
