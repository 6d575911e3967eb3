package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ordergrid/internal/grid"
)

// LookupClient calls the external item autocomplete service.
type LookupClient struct {
	baseURL string
	client  *http.Client
}

func NewLookupClient(baseURL string) *LookupClient {
	return &LookupClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns candidate items for a partial code or description. An
// empty result is not an error.
func (c *LookupClient) Search(ctx context.Context, query string) ([]grid.ItemCandidate, error) {
	u := fmt.Sprintf("%s/api/items?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var items []grid.ItemCandidate
		if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return items, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(b))
	}
}
