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

	"ordergrid/internal/grid"
)

var ErrSaveRejected = errors.New("order save rejected")

// SaveClient hands the full ordered row collection to the external
// order-save endpoint. There is no partial-row save: either the whole order
// is accepted or nothing is persisted, and the caller may simply retry.
type SaveClient struct {
	baseURL string
	client  *http.Client
}

func NewSaveClient(baseURL string) *SaveClient {
	return &SaveClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *SaveClient) Save(ctx context.Context, sessionID string, rows grid.Grid) error {
	payload := struct {
		SessionID string    `json:"sessionId"`
		Rows      grid.Grid `json:"rows"`
	}{SessionID: sessionID, Rows: rows}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	url := fmt.Sprintf("%s/api/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%w: status %d, body: %s", ErrSaveRejected, resp.StatusCode, string(b))
}
