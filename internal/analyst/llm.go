package analyst

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"dolarwatch/config"
)

// NewChatModel builds the chat model for the configured provider. Gemini is
// reached through Google's OpenAI-compatible endpoint, so the OpenAI client
// covers both providers.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	maxTokens := cfg.MaxTokens

	switch cfg.LLMProvider {
	case config.ProviderDeepSeek:
		dsCfg := &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: maxTokens,
		}
		if cfg.BackendURL != "" {
			dsCfg.BaseURL = cfg.BackendURL
		}
		cm, err := deepseek.NewChatModel(ctx, dsCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create DeepSeek model: %w", err)
		}
		return cm, nil

	case config.ProviderOpenAI:
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI model: %w", err)
		}
		return cm, nil

	default:
		baseURL := cfg.BackendURL
		if baseURL == "" {
			baseURL = config.GeminiOpenAIBaseURL
		}
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   baseURL,
			APIKey:    cfg.GoogleAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini model: %w", err)
		}
		return cm, nil
	}
}
