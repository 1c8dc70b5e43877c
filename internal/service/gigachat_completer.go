package service

import (
	"context"
	"fmt"

	"ai-insights/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const systemInstruction = `You are a banking data assistant. You help customers understand their spending, ` +
	`write read-only PostgreSQL queries over their data, and describe findings in plain, friendly language. ` +
	`When asked for JSON, reply with a single JSON object and nothing else.`

// GigaChatCompleter keeps one model per sampling temperature, since gigago
// models are configured up front rather than per request.
type GigaChatCompleter struct {
	client   *gigago.Client
	precise  *gigago.GenerativeModel
	creative *gigago.GenerativeModel
	logger   *zap.Logger
}

func NewGigaChatCompleter(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatCompleter, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	precise := client.GenerativeModel(cfg.Model)
	precise.SystemInstruction = systemInstruction
	precise.Temperature = 0.3

	creative := client.GenerativeModel(cfg.Model)
	creative.SystemInstruction = systemInstruction
	creative.Temperature = 0.7

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))

	return &GigaChatCompleter{
		client:   client,
		precise:  precise,
		creative: creative,
		logger:   logger,
	}, nil
}

// Complete ignores maxTokens; the model's own limit applies.
func (c *GigaChatCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	model := c.creative
	if temperature < 0.5 {
		model = c.precise
	}

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *GigaChatCompleter) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
