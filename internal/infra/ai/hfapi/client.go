package hfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
)

const defaultEndpoint = "https://api-inference.huggingface.co/models/"

// Client calls the hosted HuggingFace inference API for text classification.
// A failed request is reported once; there is no retry loop.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

// New builds a client for the given model. endpoint overrides the hosted
// inference URL when non-empty (e.g. a self-hosted space).
func New(model, endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint + model
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   endpoint,
		token:      token,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Classify posts the message and decodes the [[{label, score}]] response
// shape of the hosted classification endpoint.
func (c *Client) Classify(ctx context.Context, text string) ([]domain.EmotionScore, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("[HFClient] Inference request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("[HFClient] Inference returned non-200",
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return nil, fmt.Errorf("inference returned status %d", resp.StatusCode)
	}

	var batches [][]domain.EmotionScore
	if err := json.Unmarshal(respBody, &batches); err != nil {
		slog.Error("[HFClient] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(respBody))
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(batches) == 0 {
		return nil, nil
	}
	return batches[0], nil
}

// Ready is true once the client is constructed; the hosted API loads the
// model lazily on its side.
func (c *Client) Ready() bool { return true }

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
