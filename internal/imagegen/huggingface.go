package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"house-design-backend/internal/config"
	"house-design-backend/internal/metrics"
	"house-design-backend/internal/utils"
)

const maxErrorBody = 512

// HuggingFaceClient calls a Hugging Face inference endpoint (directly or
// through the router for fal-ai and replicate).
type HuggingFaceClient struct {
	name    string
	baseURL string
	token   string
	model   string
	client  *http.Client
}

func NewHuggingFaceClient(cfg config.ImageServiceConfig) *HuggingFaceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HuggingFaceClient{
		name:    cfg.Name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		model:   cfg.Model,
		client:  utils.NewHTTPClient(timeout),
	}
}

func (c *HuggingFaceClient) Name() string { return c.name }

func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamDuration.WithLabelValues("image", c.name).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s image request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s image response read failed: %w", c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &UpstreamError{Service: c.name, StatusCode: resp.StatusCode, Body: msg}
	}

	return normalizePNG(body)
}
