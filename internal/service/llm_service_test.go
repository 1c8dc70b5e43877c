package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"wrapped in prose", "Sure! Here it is:\n{\"a\": 1}\nHope that helps.", `{"a": 1}`, true},
		{"nested", `x {"a":{"b":[1,2]}} y {"c":3}`, `{"a":{"b":[1,2]}}`, true},
		{"brace inside string", `{"text":"a } b","n":1}`, `{"text":"a } b","n":1}`, true},
		{"escaped quote", `{"text":"say \"}\" now"}`, `{"text":"say \"}\" now"}`, true},
		{"fenced", "```json\n{\"ok\":true}\n```", `{"ok":true}`, true},
		{"no object", "no json here", "", false},
		{"unbalanced", `{"a": {"b": 1}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("extractJSONObject() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStripSQLFence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SELECT 1", "SELECT 1"},
		{"```sql\nSELECT amount FROM transactions\n```", "SELECT amount FROM transactions"},
		{"```\nSELECT 1;\n```", "SELECT 1;"},
		{"  SELECT 2  ", "SELECT 2"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := stripSQLFence(tt.input); got != tt.want {
			t.Errorf("stripSQLFence(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

type flakyCompleter struct {
	failures int
	calls    int
}

func (c *flakyCompleter) Complete(context.Context, string, int, float64) (string, error) {
	c.calls++
	if c.calls <= c.failures {
		return "", errors.New("temporary failure")
	}
	return "  answer  ", nil
}

func (c *flakyCompleter) Close() error { return nil }

func TestGenerateTextRetries(t *testing.T) {
	tests := []struct {
		name       string
		failures   int
		maxRetries int
		want       string
		wantCalls  int
	}{
		{"first try", 0, 1, "answer", 1},
		{"recovers on retry", 1, 1, "answer", 2},
		{"gives up", 2, 1, "", 2},
		{"no retries", 1, 0, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &flakyCompleter{failures: tt.failures}
			llm := NewLLMService(completer, tt.maxRetries, zap.NewNop())

			got := llm.GenerateText(context.Background(), "hi", defaultMaxTokens, defaultTemperature)
			if got != tt.want {
				t.Errorf("GenerateText() = %q, want %q", got, tt.want)
			}
			if completer.calls != tt.wantCalls {
				t.Errorf("completer called %d times, want %d", completer.calls, tt.wantCalls)
			}
		})
	}
}

func TestGenerateStructured(t *testing.T) {
	llm, completer := newGateway(map[string]string{
		"good":    `Here you go: {"summary": "fine", "trends": ["up"]}`,
		"garbage": "I cannot answer that",
		"broken":  `{"summary": fine}`,
	})
	ctx := context.Background()

	payload := llm.GenerateStructured(ctx, "good")
	if summary, _ := payload.String("summary"); summary != "fine" {
		t.Errorf("GenerateStructured() = %v", payload)
	}
	if last := completer.prompts[len(completer.prompts)-1]; last != "good"+structuredInstruction {
		t.Errorf("prompt = %q, want JSON instruction appended", last)
	}

	for _, prompt := range []string{"garbage", "broken", "unknown"} {
		if payload := llm.GenerateStructured(ctx, prompt); payload != nil {
			t.Errorf("GenerateStructured(%q) = %v, want nil", prompt, payload)
		}
	}
}

func TestAttemptOr(t *testing.T) {
	if got := attemptOr(func() (int, bool) { return 7, true }, 1); got != 7 {
		t.Errorf("attemptOr() = %d, want 7", got)
	}
	if got := attemptOr(func() (int, bool) { return 7, false }, 1); got != 1 {
		t.Errorf("attemptOr() = %d, want fallback 1", got)
	}
}

func TestFallbackCombinators(t *testing.T) {
	llm := offlineGateway()
	ctx := context.Background()

	if got := llm.TextOr(ctx, "anything", "fallback"); got != "fallback" {
		t.Errorf("TextOr() = %q", got)
	}
	if got := llm.DescribeOr(ctx, map[string]int{"a": 1}, "spending_trends", "plain"); got != "plain" {
		t.Errorf("DescribeOr() = %q", got)
	}
	if got := llm.StructuredOr(ctx, "anything", nil); got != nil {
		t.Errorf("StructuredOr() = %v", got)
	}
	if got := llm.GenerateSQL(ctx, "q", "schema"); got != "" {
		t.Errorf("GenerateSQL() = %q", got)
	}
}

func TestGenerateSQLStripsFence(t *testing.T) {
	llm, _ := newGateway(map[string]string{
		"Convert the following natural language query to SQL": "```sql\nSELECT * FROM transactions\n```",
	})

	if got := llm.GenerateSQL(context.Background(), "all my transactions", "schema"); got != "SELECT * FROM transactions" {
		t.Errorf("GenerateSQL() = %q", got)
	}
}
