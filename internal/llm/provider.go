package llm

import (
	"context"
	"fmt"

	"house-design-backend/internal/config"
	"house-design-backend/internal/utils"
	"house-design-backend/pkg/logger"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
)

const (
	ProviderOpenAI = "openai"
	ProviderDoubao = "doubao"
	ProviderQwen   = "qwen"
)

// NewChatModel 根据 model.provider 创建对话模型
func NewChatModel(ctx context.Context, cfg *config.Config) (einoModel.BaseChatModel, error) {
	switch cfg.Model.Provider {
	case ProviderDoubao:
		return createDoubaoModel(ctx, cfg.Doubao)
	case ProviderOpenAI:
		return createOpenAIModel(cfg.OpenAI)
	case ProviderQwen:
		return createQwenModel(ctx, cfg.Qwen)
	default:
		return nil, fmt.Errorf("unsupported model provider: %q", cfg.Model.Provider)
	}
}

func maskKey(key string) string {
	if len(key) > 6 {
		return key[:6] + "..."
	}
	if key == "" {
		return "(empty)"
	}
	return "***"
}

func createDoubaoModel(ctx context.Context, cfg config.DoubaoConfig) (einoModel.BaseChatModel, error) {
	logger.WithFields(logger.Fields{
		"provider": ProviderDoubao,
		"model":    cfg.Model,
		"api_key":  maskKey(cfg.APIKey),
	}).Info("creating chat model")

	arkCfg := &ark.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		CustomHeader: map[string]string{
			"X-Ark-Thinking-Mode": "disable",
		},
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		arkCfg.Timeout = &timeout
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		arkCfg.MaxTokens = &maxTokens
	}
	if cfg.Temperature > 0 {
		temperature := cfg.Temperature
		arkCfg.Temperature = &temperature
	}

	chatModel, err := ark.NewChatModel(ctx, arkCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create doubao model: %w", err)
	}
	return chatModel, nil
}

func createOpenAIModel(cfg config.OpenAIConfig) (einoModel.BaseChatModel, error) {
	logger.WithFields(logger.Fields{
		"provider": ProviderOpenAI,
		"model":    cfg.Model,
		"base_url": cfg.BaseURL,
	}).Info("creating chat model")

	chatModel, err := newOpenAIChatModel(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai model: %w", err)
	}
	return chatModel, nil
}

func createQwenModel(ctx context.Context, cfg config.QwenConfig) (einoModel.BaseChatModel, error) {
	logger.WithFields(logger.Fields{
		"provider": ProviderQwen,
		"model":    cfg.Model,
		"base_url": cfg.BaseURL,
		"api_key":  maskKey(cfg.APIKey),
		"debug":    cfg.DebugRequest,
	}).Info("creating chat model")

	// 带调试功能的 HTTPClient
	httpClient := utils.NewHTTPClientWithTransport(cfg.Timeout,
		NewDebugTransport(utils.NewTransport(), ProviderQwen, cfg.DebugRequest))

	chatModel, err := qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &cfg.MaxTokens,
		Temperature: &cfg.Temperature,
		TopP:        &cfg.TopP,
		Timeout:     cfg.Timeout,
		HTTPClient:  httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qwen model: %w", err)
	}
	return chatModel, nil
}
