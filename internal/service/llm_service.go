package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ai-insights/internal/models"
	"ai-insights/pkg/config"

	"go.uber.org/zap"
)

const (
	defaultMaxTokens      = 1000
	defaultTemperature    = 0.7
	structuredMaxTokens   = 2000
	sqlMaxTokens          = 500
	sqlTemperature        = 0.3
	descriptionMaxTokens  = 200
	structuredInstruction = "\n\nPlease respond in valid JSON format."
)

var errEmptyCompletion = errors.New("empty completion")

// Completer sends one prompt to a generative model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
	Close() error
}

// Gateway is the AI boundary every agent talks to. Methods never fail:
// an unusable answer comes back as "" or a nil payload.
type Gateway interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) string
	GenerateStructured(ctx context.Context, prompt string) models.AIPayload
	AnalyzeData(ctx context.Context, data interface{}, analysisKind, contextNote string) models.AIPayload
	GenerateSQL(ctx context.Context, nlQuery, schema string) string
	TextOr(ctx context.Context, prompt, fallback string) string
	StructuredOr(ctx context.Context, prompt string, fallback models.AIPayload) models.AIPayload
	DescribeOr(ctx context.Context, data interface{}, insightKind, fallback string) string
}

type LLMService struct {
	completer  Completer
	maxRetries int
	logger     *zap.Logger
}

func NewLLMService(completer Completer, maxRetries int, logger *zap.Logger) *LLMService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &LLMService{
		completer:  completer,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// NewCompleter builds the completer for the configured provider.
func NewCompleter(ctx context.Context, cfg *config.AIConfig, logger *zap.Logger) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderGigaChat:
		return NewGigaChatCompleter(ctx, &cfg.GigaChat, logger)
	case config.ProviderAnthropic:
		return NewAnthropicCompleter(&cfg.Anthropic, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// attemptOr returns the result of call, or fallback when the call produced nothing usable.
func attemptOr[T any](call func() (T, bool), fallback T) T {
	if v, ok := call(); ok {
		return v
	}
	return fallback
}

func (s *LLMService) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := s.completer.Complete(ctx, prompt, maxTokens, temperature)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		if err == nil {
			err = errEmptyCompletion
		}
		lastErr = err
		s.logger.Warn("AI completion failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", lastErr
}

func (s *LLMService) GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) string {
	text, err := s.complete(ctx, prompt, maxTokens, temperature)
	if err != nil {
		s.logger.Error("Error generating text", zap.Error(err))
		return ""
	}
	return text
}

func (s *LLMService) GenerateStructured(ctx context.Context, prompt string) models.AIPayload {
	text := s.GenerateText(ctx, prompt+structuredInstruction, structuredMaxTokens, defaultTemperature)
	if text == "" {
		return nil
	}

	raw, ok := extractJSONObject(text)
	if !ok {
		s.logger.Warn("No valid JSON found in response")
		return nil
	}

	var payload models.AIPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		s.logger.Warn("Failed to parse JSON response", zap.Error(err))
		return nil
	}
	return payload
}

func (s *LLMService) AnalyzeData(ctx context.Context, data interface{}, analysisKind, contextNote string) models.AIPayload {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		s.logger.Error("Failed to encode analysis data", zap.Error(err))
		return nil
	}

	prompt := fmt.Sprintf(`Analyze the following banking data for %s:

Context: %s

Data:
%s

Please provide:
1. Key insights and patterns
2. Trends and changes over time
3. Recommendations for the user
4. Any concerning patterns or opportunities

Format your response as JSON with the following structure:
{
    "insights": ["insight1", "insight2"],
    "trends": ["trend1", "trend2"],
    "recommendations": ["rec1", "rec2"],
    "concerns": ["concern1", "concern2"],
    "summary": "Overall summary of the analysis"
}`, analysisKind, contextNote, encoded)

	return s.GenerateStructured(ctx, prompt)
}

func (s *LLMService) GenerateSQL(ctx context.Context, nlQuery, schema string) string {
	prompt := fmt.Sprintf(`Convert the following natural language query to SQL:

Query: %s

Database Schema:
%s

Rules:
1. Only use the tables and columns mentioned in the schema
2. Use proper SQL syntax for PostgreSQL
3. Include appropriate WHERE clauses for filtering
4. Use proper JOINs when needed
5. Return only the SQL query, no explanations

SQL Query:`, nlQuery, schema)

	return stripSQLFence(s.GenerateText(ctx, prompt, sqlMaxTokens, sqlTemperature))
}

func (s *LLMService) TextOr(ctx context.Context, prompt, fallback string) string {
	return attemptOr(func() (string, bool) {
		text := s.GenerateText(ctx, prompt, defaultMaxTokens, defaultTemperature)
		return text, text != ""
	}, fallback)
}

func (s *LLMService) StructuredOr(ctx context.Context, prompt string, fallback models.AIPayload) models.AIPayload {
	return attemptOr(func() (models.AIPayload, bool) {
		payload := s.GenerateStructured(ctx, prompt)
		return payload, payload != nil
	}, fallback)
}

// DescribeOr narrates an insight payload in a few friendly sentences.
func (s *LLMService) DescribeOr(ctx context.Context, data interface{}, insightKind, fallback string) string {
	return attemptOr(func() (string, bool) {
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", false
		}

		prompt := fmt.Sprintf(`Generate a clear, actionable description for this %s insight:

Data: %s

Requirements:
1. Write in a friendly, conversational tone
2. Be specific about numbers and time periods
3. Provide actionable advice
4. Keep it concise (2-3 sentences)
5. Use positive language when possible

Description:`, insightKind, encoded)

		text := s.GenerateText(ctx, prompt, descriptionMaxTokens, defaultTemperature)
		return text, text != ""
	}, fallback)
}

func (s *LLMService) Close() error {
	return s.completer.Close()
}

// extractJSONObject returns the first balanced top-level {...} span of text.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func stripSQLFence(text string) string {
	sql := strings.TrimSpace(text)
	if strings.HasPrefix(sql, "```sql") {
		sql = sql[len("```sql"):]
	} else if strings.HasPrefix(sql, "```") {
		sql = sql[len("```"):]
	}
	sql = strings.TrimSuffix(strings.TrimSpace(sql), "```")
	return strings.TrimSpace(sql)
}
