package server

import (
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hepalab/aucrank/internal/analysis"
	"github.com/hepalab/aucrank/internal/expression"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(createResponse(HealthResponse{Status: "ok"}, nil))
}

func (s *Server) handleRank(c *fiber.Ctx) error {
	var req RankRequest
	if err := c.BodyParser(&req); err != nil {
		log.Error().Err(err).Str("route", c.Path()).Msg("Failed to parse request body")
		return c.Status(fiber.StatusBadRequest).JSON(createResponse(struct{}{}, err))
	}

	values := make([]float64, 0, len(req.Genes)*len(req.Samples))
	for _, row := range req.Values {
		if len(row) != len(req.Samples) {
			err := fmt.Errorf("matrix row has %d values, want %d", len(row), len(req.Samples))
			return c.Status(fiber.StatusBadRequest).JSON(createResponse(struct{}{}, err))
		}
		for _, v := range row {
			values = append(values, deref(v))
		}
	}
	if len(req.Values) != len(req.Genes) {
		err := fmt.Errorf("have %d matrix rows for %d genes", len(req.Values), len(req.Genes))
		return c.Status(fiber.StatusBadRequest).JSON(createResponse(struct{}{}, err))
	}

	m, err := expression.NewMatrix(req.Genes, req.Samples, values)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(createResponse(struct{}{}, err))
	}

	ranking, err := analysis.RankGenes(c.UserContext(), m, expression.Labels(req.Labels), analysis.RankOptions{
		TopN:    req.TopN,
		Workers: req.Workers,
	})
	if err != nil {
		return c.Status(statusFor(err)).JSON(createResponse(struct{}{}, err))
	}
	return c.JSON(createResponse(ranking, nil))
}

func (s *Server) handleBootstrap(c *fiber.Ctx) error {
	var req BootstrapRequest
	if err := c.BodyParser(&req); err != nil {
		log.Error().Err(err).Str("route", c.Path()).Msg("Failed to parse request body")
		return c.Status(fiber.StatusBadRequest).JSON(createResponse(struct{}{}, err))
	}

	values := make([]float64, len(req.Values))
	for i, v := range req.Values {
		values[i] = deref(v)
	}

	dist, err := analysis.BootstrapAUC(values, expression.Labels(req.Labels), analysis.BootstrapOptions{
		Iterations: req.Iterations,
		Seed:       req.Seed,
	})
	if err != nil {
		return c.Status(statusFor(err)).JSON(createResponse(struct{}{}, err))
	}

	confidence := req.Confidence
	if confidence == 0 {
		confidence = analysis.DefaultConfidence
	}
	summary, err := dist.Summarize(confidence)
	if err != nil {
		return c.Status(statusFor(err)).JSON(createResponse(struct{}{}, err))
	}

	return c.JSON(createResponse(BootstrapResponse{
		Gene:         req.Gene,
		Distribution: dist,
		Summary:      summary,
	}, nil))
}

// deref converts a nullable JSON number into the NaN missing-value encoding
// used by the matrix.
func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
