package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"ai-insights/internal/models"

	"go.uber.org/zap"
)

const understandKey = "Analyze this user query about their banking/spending data"

func TestUnderstandWithoutAI(t *testing.T) {
	svc := NewQueryUnderstandingService(offlineGateway(), zap.NewNop())

	tests := []struct {
		query          string
		wantType       models.AnalysisType
		wantPeriod     string
		wantCategories []string
		wantViz        bool
		wantPriority   int
	}{
		// "show" is a visualization keyword.
		{"Show me my coffee spending this month", models.AnalysisGeneral, "this_month", []string{"food"}, true, 3},
		{"How has my spending changed over time?", models.AnalysisSpendingTrends, "this_month", []string{}, false, 3},
		{"Where did my money go last week", models.AnalysisCategory, "last_week", []string{}, false, 3},
		{"Am I doing better than last month", models.AnalysisImprovement, "last_month", []string{}, false, 3},
		{"URGENT: netflix and uber costs today, plot it", models.AnalysisGeneral, "today", []string{"entertainment", "transportation"}, true, 5},
		{"Spending this year vs last year", models.AnalysisGeneral, "this_year", []string{}, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			intent, err := svc.Understand(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Understand() error = %v", err)
			}
			if intent.AnalysisType != tt.wantType {
				t.Errorf("AnalysisType = %q, want %q", intent.AnalysisType, tt.wantType)
			}
			if intent.TimePeriod != tt.wantPeriod {
				t.Errorf("TimePeriod = %q, want %q", intent.TimePeriod, tt.wantPeriod)
			}
			if !reflect.DeepEqual(intent.Categories, tt.wantCategories) {
				t.Errorf("Categories = %v, want %v", intent.Categories, tt.wantCategories)
			}
			if intent.NeedsVisualization != tt.wantViz {
				t.Errorf("NeedsVisualization = %v, want %v", intent.NeedsVisualization, tt.wantViz)
			}
			if intent.Priority != tt.wantPriority {
				t.Errorf("Priority = %d, want %d", intent.Priority, tt.wantPriority)
			}
			if intent.Confidence != 0.7 {
				t.Errorf("Confidence = %v, want 0.7", intent.Confidence)
			}
			if intent.OriginalQuery != tt.query {
				t.Errorf("OriginalQuery = %q", intent.OriginalQuery)
			}
		})
	}
}

func TestUnderstandPrefersAIFields(t *testing.T) {
	llm, _ := newGateway(map[string]string{
		understandKey: `{"analysis_type": "spending_trends", "time_period": "last_week",
			"categories": ["shopping"], "needs_visualization": false, "priority": 9}`,
	})
	svc := NewQueryUnderstandingService(llm, zap.NewNop())

	intent, err := svc.Understand(context.Background(), "Show me a chart of coffee")
	if err != nil {
		t.Fatalf("Understand() error = %v", err)
	}
	if intent.AnalysisType != models.AnalysisSpendingTrends || intent.TimePeriod != "last_week" {
		t.Errorf("intent = %+v", intent)
	}
	if !reflect.DeepEqual(intent.Categories, []string{"shopping"}) {
		t.Errorf("Categories = %v", intent.Categories)
	}
	if intent.NeedsVisualization {
		t.Error("NeedsVisualization should come from the AI")
	}
	if intent.Priority != 5 {
		t.Errorf("Priority = %d, want clamped 5", intent.Priority)
	}
	if intent.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want default 0.8", intent.Confidence)
	}
}

func TestUnderstandIgnoresUnknownAnalysisType(t *testing.T) {
	llm, _ := newGateway(map[string]string{
		understandKey: `{"analysis_type": "astrology", "confidence": 0.4}`,
	})
	svc := NewQueryUnderstandingService(llm, zap.NewNop())

	intent, err := svc.Understand(context.Background(), "what is the trend")
	if err != nil {
		t.Fatalf("Understand() error = %v", err)
	}
	if intent.AnalysisType != models.AnalysisSpendingTrends {
		t.Errorf("AnalysisType = %q, want keyword fallback", intent.AnalysisType)
	}
	if intent.Confidence != 0.4 {
		t.Errorf("Confidence = %v, want 0.4", intent.Confidence)
	}
}

func TestUnderstandBlankQuery(t *testing.T) {
	svc := NewQueryUnderstandingService(offlineGateway(), zap.NewNop())

	if _, err := svc.Understand(context.Background(), "   "); !errors.Is(err, ErrIntentUnavailable) {
		t.Errorf("Understand() error = %v, want ErrIntentUnavailable", err)
	}
}

func TestTimePeriodDays(t *testing.T) {
	tests := map[string]int{
		"today":      1,
		"yesterday":  1,
		"this_week":  7,
		"last_week":  14,
		"this_month": 30,
		"last_month": 60,
		"this_year":  365,
		"last_year":  730,
		"someday":    30,
	}
	for token, want := range tests {
		if got := TimePeriodDays(token); got != want {
			t.Errorf("TimePeriodDays(%q) = %d, want %d", token, got, want)
		}
	}
}

func TestClarifyAndSuggest(t *testing.T) {
	svc := NewQueryUnderstandingService(offlineGateway(), zap.NewNop())
	ctx := context.Background()

	if got := svc.Clarify(ctx, "stuff"); got != defaultClarification {
		t.Errorf("Clarify() = %q", got)
	}
	if got := svc.SuggestRelated(ctx, "stuff"); !reflect.DeepEqual(got, defaultSuggestions) {
		t.Errorf("SuggestRelated() = %v", got)
	}

	llm, _ := newGateway(map[string]string{
		"Suggest 3-5 related questions": `{"suggestions": ["a", "b", "c", "d", "e", "f"]}`,
	})
	svc = NewQueryUnderstandingService(llm, zap.NewNop())
	if got := svc.SuggestRelated(ctx, "stuff"); len(got) != 5 || got[0] != "a" {
		t.Errorf("SuggestRelated() = %v, want first five AI suggestions", got)
	}
}
