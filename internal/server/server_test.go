package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepalab/aucrank/internal/analysis"
)

func f(v float64) *float64 { return &v }

func postJSON(t *testing.T, s *Server, path string, body any) (*http.Response, []byte) {
	t.Helper()
	raw, err := sonic.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func TestHealth(t *testing.T) {
	s := NewServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out StdResponse[HealthResponse]
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal(payload, &out))
	assert.Equal(t, "ok", out.Body.Status)
}

func TestRankEndpoint(t *testing.T) {
	s := NewServer(nil)

	resp, payload := postJSON(t, s, "/v1/rank", RankRequest{
		Genes:   []string{"GeneA", "GeneB"},
		Samples: []string{"S1", "S2", "S3", "S4", "S5", "S6"},
		Values: [][]*float64{
			{f(1), f(2), f(3), f(10), f(11), f(12)},
			{f(5), f(5), f(5), f(5), f(5), f(5)},
		},
		Labels: []int{0, 0, 0, 1, 1, 1},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(payload))

	var out StdResponse[analysis.Ranking]
	require.NoError(t, sonic.Unmarshal(payload, &out))
	require.Nil(t, out.Error)
	require.Len(t, out.Body.Scores, 2)
	assert.Equal(t, "GeneA", out.Body.Scores[0].Gene)
	assert.Equal(t, 1.0, out.Body.Scores[0].AUC)
	assert.Equal(t, "GeneB", out.Body.Scores[1].Gene)
	assert.Equal(t, 0.5, out.Body.Scores[1].AUC)
}

func TestRankEndpointMissingValuesAsNull(t *testing.T) {
	s := NewServer(nil)

	resp, payload := postJSON(t, s, "/v1/rank", RankRequest{
		Genes:   []string{"GeneA"},
		Samples: []string{"S1", "S2", "S3", "S4"},
		Values: [][]*float64{
			{f(1), f(2), nil, f(10)},
		},
		Labels: []int{0, 0, 1, 1},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(payload))

	var out StdResponse[analysis.Ranking]
	require.NoError(t, sonic.Unmarshal(payload, &out))
	require.Len(t, out.Body.Scores, 1)
	assert.Equal(t, 1, out.Body.Scores[0].Tumors, "null expression drops its pair")
}

func TestRankEndpointInvalidInput(t *testing.T) {
	s := NewServer(nil)

	resp, _ := postJSON(t, s, "/v1/rank", RankRequest{
		Genes:   []string{"GeneA"},
		Samples: []string{"S1", "S2"},
		Values:  [][]*float64{{f(1), f(2)}},
		Labels:  []int{1, 1}, // single class
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, s, "/v1/rank", RankRequest{
		Genes:   []string{"GeneA"},
		Samples: []string{"S1", "S2"},
		Values:  [][]*float64{{f(1)}},
		Labels:  []int{0, 1},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBootstrapEndpoint(t *testing.T) {
	s := NewServer(nil)

	resp, payload := postJSON(t, s, "/v1/bootstrap", BootstrapRequest{
		Gene:       "GeneA",
		Values:     []*float64{f(1), f(2), f(3), f(4), f(10), f(11), f(12), f(13)},
		Labels:     []int{0, 0, 0, 0, 1, 1, 1, 1},
		Iterations: 200,
		Seed:       42,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(payload))

	var out StdResponse[BootstrapResponse]
	require.NoError(t, sonic.Unmarshal(payload, &out))
	require.Nil(t, out.Error)
	assert.Equal(t, "GeneA", out.Body.Gene)
	assert.Equal(t, 200, out.Body.Distribution.Skipped+len(out.Body.Distribution.AUCs))
	assert.Equal(t, 0.95, out.Body.Summary.Confidence)
	assert.InDelta(t, 1.0, out.Body.Summary.Mean, 0.1)
}

func TestBootstrapEndpointDegenerate(t *testing.T) {
	s := NewServer(nil)

	resp, _ := postJSON(t, s, "/v1/bootstrap", BootstrapRequest{
		Values:     []*float64{nil, nil, nil, nil},
		Labels:     []int{0, 0, 1, 1},
		Iterations: 50,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
