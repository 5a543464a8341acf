package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"house-design-backend/internal/config"
	"house-design-backend/internal/metrics"
	"house-design-backend/internal/utils"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient generates images through the OpenAI images API.
type OpenAIClient struct {
	name   string
	model  string
	size   string
	client *openai.Client
}

func NewOpenAIClient(cfg config.ImageServiceConfig, size string) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	clientConfig.HTTPClient = utils.NewHTTPClient(timeout)

	model := cfg.Model
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	return &OpenAIClient{
		name:   cfg.Name,
		model:  model,
		size:   size,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (c *OpenAIClient) Name() string { return c.name }

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	start := time.Now()
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.model,
		N:              1,
		Size:           c.size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	metrics.UpstreamDuration.WithLabelValues("image", c.name).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s image request failed: %w", c.name, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyImage
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return normalizePNG(data)
}
