package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hepalab/aucrank/internal/analysis"
	"github.com/hepalab/aucrank/internal/config"
)

// Server defaults, used when no configuration is supplied.
const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8080
	DefaultBodyLimit  = 16 * 1024 * 1024 // expression matrices are large
)

// Server exposes the analysis core over HTTP.
type Server struct {
	App *fiber.App
	cfg *config.ServerEnvConfig
}

// StdResponse represents the standardized response structure
type StdResponse[T any] struct {
	Body  T       `json:"body"`
	Error *string `json:"error,omitempty"`
}

// RankRequest carries an expression matrix and aligned labels. Values holds
// one row per gene in gene order; null entries mark missing measurements.
type RankRequest struct {
	Genes   []string     `json:"genes"`
	Samples []string     `json:"samples"`
	Values  [][]*float64 `json:"values"`
	Labels  []int        `json:"labels"`
	TopN    int          `json:"top_n,omitempty"`
	Workers int          `json:"workers,omitempty"`
}

// BootstrapRequest carries one gene's expression vector and aligned labels.
type BootstrapRequest struct {
	Gene       string     `json:"gene,omitempty"`
	Values     []*float64 `json:"values"`
	Labels     []int      `json:"labels"`
	Iterations int        `json:"iterations,omitempty"`
	Seed       uint64     `json:"seed,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
}

// BootstrapResponse pairs the empirical distribution with its summary.
type BootstrapResponse struct {
	Gene         string                 `json:"gene,omitempty"`
	Distribution *analysis.Distribution `json:"distribution"`
	Summary      analysis.Summary       `json:"summary"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
}
