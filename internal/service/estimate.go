package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	ErrEstimateUnavailable = errors.New("no estimate available")
	ErrRateLimited         = errors.New("rate limit exceeded")
)

// EstimateClient calls the external price-estimation service.
type EstimateClient struct {
	baseURL string
	client  *http.Client
}

type EstimateRequest struct {
	ItemCode    string `json:"itemCode"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Supplier    string `json:"supplier"`
}

type EstimateResponse struct {
	EstimatedPrice float64   `json:"estimatedPrice"`
	Confidence     int       `json:"confidence"` // 0–100
	HistoricalData []float64 `json:"historicalData,omitempty"`
}

func NewEstimateClient(baseURL string) *EstimateClient {
	return &EstimateClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *EstimateClient) Estimate(ctx context.Context, er EstimateRequest) (*EstimateResponse, error) {
	body, err := json.Marshal(er)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/estimate", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var res EstimateResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return &res, nil
	case http.StatusNoContent:
		return nil, ErrEstimateUnavailable
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(b))
	}
}
