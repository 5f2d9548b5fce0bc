// Package vision is the HTTP client for the external image-understanding
// collaborator. The collaborator is treated as slow, occasionally
// unreachable and occasionally wrong; callers decide how much of that to
// tolerate.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Analysis is the raw result of one analyze call. Response is free text
// that is expected, but not guaranteed, to contain a JSON object.
type Analysis struct {
	Response string `json:"response"`
}

type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (*Analysis, error)
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature float64
}

const describePrompt = `Describe this photo. Reply with a single JSON object ` +
	`with the keys "summary" (one sentence), "description" (a short paragraph) ` +
	`and "tags" (an array of up to five short keywords). Reply with JSON only.`

func NewClient(baseURL, model string, temperature float64, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
}

func (c *Client) Analyze(ctx context.Context, image []byte) (*Analysis, error) {
	reqBody := &generateRequest{
		Model:   c.model,
		Prompt:  describePrompt,
		Images:  []string{base64.StdEncoding.EncodeToString(image)},
		Stream:  false,
		Options: generateOptions{Temperature: c.temperature},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vision API error %d: %s", resp.StatusCode, string(body))
	}

	var analysis Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &analysis, nil
}
