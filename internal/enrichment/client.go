// Package enrichment provides a client for an external functional-enrichment
// service (GO/KEGG style over-representation analysis). The enrichment
// database itself is out of scope; this package only speaks its HTTP API.
package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/hepalab/aucrank/internal/config"
)

// Service is the interface the pipeline consumes, so runs can proceed with
// enrichment disabled.
type Service interface {
	// Enrich submits a gene list and returns the over-represented terms.
	Enrich(ctx context.Context, genes []string) ([]Term, error)
	// Enabled reports whether the service is configured.
	Enabled() bool
}

// Client is a REST client for the enrichment service.
type Client struct {
	cfg    *config.EnrichmentEnvConfig
	client *resty.Client
}

// NewClient constructs an enrichment client. Transient failures are retried
// at the transport level.
func NewClient(cfg *config.EnrichmentEnvConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("enrichment env configuration cannot be nil")
	}
	if cfg.EnrichmentURL == "" {
		return nil, fmt.Errorf("enrichment service URL is empty")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(cfg.EnrichmentURL).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetTimeout(cfg.EnrichmentTimeout)

	return &Client{cfg: cfg, client: client}, nil
}

// Enabled implements Service.
func (c *Client) Enabled() bool { return true }

// Enrich implements Service.
func (c *Client) Enrich(ctx context.Context, genes []string) ([]Term, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("empty gene list")
	}

	var out EnrichResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(EnrichRequest{Organism: c.cfg.Organism, Genes: genes}).
		SetResult(&out).
		Post("/api/enrich")
	if err != nil {
		return nil, fmt.Errorf("enrich request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("enrich request returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if !out.Success {
		return nil, fmt.Errorf("enrich request failed: %s", out.Error)
	}

	log.Info().
		Int("genes", len(genes)).
		Int("terms", len(out.Results)).
		Str("organism", c.cfg.Organism).
		Msg("enrichment query finished")
	return out.Results, nil
}

// Disabled is the nil-object Service used when no enrichment URL is
// configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Enrich(context.Context, []string) ([]Term, error) {
	return nil, nil
}
