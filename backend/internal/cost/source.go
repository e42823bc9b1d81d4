package cost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sourceTimeout = 30 * time.Second

// HTTPSource queries a billing-export proxy endpoint for per-service costs.
// The cloud billing APIs themselves sit behind these endpoints; this core only
// depends on the query contract.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates a billing source for the given endpoint URL.
// Returns nil for an empty URL so the aggregator reports zeros for it.
func NewHTTPSource(url string) *HTTPSource {
	if url == "" {
		return nil
	}
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: sourceTimeout},
	}
}

type costQuery struct {
	Service string `json:"service"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type costResult struct {
	Cost float64 `json:"cost"`
}

// Cost fetches the cost of one service between start and end (YYYY-MM-DD)
func (s *HTTPSource) Cost(ctx context.Context, service, start, end string) (float64, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(costQuery{Service: service, Start: start, End: end}); err != nil {
		return 0, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, buf)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result costResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return result.Cost, nil
}
