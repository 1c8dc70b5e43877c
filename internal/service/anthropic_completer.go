package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-insights/pkg/config"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

type AnthropicCompleter struct {
	client anthropic.Client
	model  string
	logger *zap.Logger
}

func NewAnthropicCompleter(cfg *config.AnthropicConfig, logger *zap.Logger) (*AnthropicCompleter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required for the anthropic provider")
	}

	logger.Info("Using Anthropic model", zap.String("model", cfg.Model))

	return &AnthropicCompleter{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System:      []anthropic.TextBlockParam{{Text: systemInstruction}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errEmptyCompletion
	}
	return text.String(), nil
}

func (c *AnthropicCompleter) Close() error {
	return nil
}
