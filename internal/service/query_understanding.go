package service

import (
	"context"
	"fmt"
	"strings"

	"ai-insights/internal/models"

	"go.uber.org/zap"
)

const (
	defaultTimePeriod     = "this_month"
	defaultClarification  = "Could you please be more specific about what you'd like to see?"
	maxRelatedSuggestions = 5
)

type keywordRule struct {
	name     string
	keywords []string
}

// Keyword tables are ordered; the first match wins where a single answer is needed.
var (
	analysisRules = []struct {
		analysis models.AnalysisType
		keywords []string
	}{
		{models.AnalysisSpendingTrends, []string{"trend", "over time", "change", "increase", "decrease"}},
		{models.AnalysisCategory, []string{"category", "breakdown", "spend on", "where"}},
		{models.AnalysisImprovement, []string{"improve", "better", "worse", "progress", "doing"}},
	}

	timePeriodPhrases = []struct {
		phrase string
		days   int
	}{
		{"today", 1},
		{"yesterday", 1},
		{"this week", 7},
		{"last week", 14},
		{"this month", 30},
		{"last month", 60},
		{"this year", 365},
		{"last year", 730},
	}

	categoryRules = []keywordRule{
		{"food", []string{"food", "restaurant", "dining", "coffee", "lunch", "dinner", "grocery"}},
		{"entertainment", []string{"movie", "game", "entertainment", "netflix", "spotify", "subscription"}},
		{"transportation", []string{"gas", "fuel", "uber", "lyft", "taxi", "transport", "parking"}},
		{"shopping", []string{"amazon", "store", "shopping", "retail", "clothes", "clothing"}},
		{"utilities", []string{"electric", "water", "internet", "phone", "utility", "bill"}},
		{"healthcare", []string{"doctor", "pharmacy", "medical", "health", "hospital"}},
		{"education", []string{"school", "university", "course", "book", "education", "learning"}},
	}

	visualizationKeywords = []string{"chart", "graph", "visual", "show", "plot", "display"}
	urgencyKeywords       = []string{"urgent", "important", "asap", "quickly", "immediately"}

	defaultSuggestions = []string{
		"Show me my spending trends this month",
		"What categories am I spending most on?",
		"How am I doing compared to last month?",
		"What are my biggest expenses?",
		"Show me my recent transactions",
	}
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// TimePeriodDays converts a time period token to a look-back window in days.
func TimePeriodDays(token string) int {
	for _, p := range timePeriodPhrases {
		if strings.ReplaceAll(p.phrase, " ", "_") == token {
			return p.days
		}
	}
	return 30
}

type QueryUnderstandingService struct {
	llm    Gateway
	logger *zap.Logger
}

func NewQueryUnderstandingService(llm Gateway, logger *zap.Logger) *QueryUnderstandingService {
	return &QueryUnderstandingService{
		llm:    llm,
		logger: logger,
	}
}

// Understand parses a query into an intent. AI fields win when present and
// well-formed; every other field comes from the keyword rules.
func (s *QueryUnderstandingService) Understand(ctx context.Context, query string) (*models.QueryIntent, error) {
	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" {
		return nil, ErrIntentUnavailable
	}

	ai := s.llm.GenerateStructured(ctx, understandPrompt(query))

	intent := &models.QueryIntent{
		OriginalQuery:      query,
		AnalysisType:       analysisType(lower, ai),
		TimePeriod:         timePeriod(lower, ai),
		Categories:         categories(lower, ai),
		NeedsVisualization: needsVisualization(lower, ai),
		Priority:           priority(lower, ai),
		Confidence:         0.7,
	}
	if ai != nil {
		intent.Confidence = 0.8
		if c, ok := ai.Float("confidence"); ok {
			intent.Confidence = clamp(c, 0, 1)
		}
	}

	s.logger.Info("Understood query",
		zap.String("analysis_type", string(intent.AnalysisType)),
		zap.String("time_period", intent.TimePeriod),
		zap.Strings("categories", intent.Categories),
		zap.Bool("ai", ai != nil),
	)

	return intent, nil
}

func understandPrompt(query string) string {
	return fmt.Sprintf(`Analyze this user query about their banking/spending data:

Query: "%s"

Determine:
1. What type of analysis they want (spending_trends, category_analysis, improvement, general)
2. What time period they're interested in (today, this week, this month, etc.)
3. What spending categories they care about (food, entertainment, shopping, etc.)
4. Whether they want visualizations (charts, graphs)
5. How urgent/important this request is (1-5 scale)
6. Your confidence in understanding this query (0-1 scale)

Respond in JSON format:
{
    "analysis_type": "spending_trends",
    "time_period": "this_month",
    "categories": ["food", "entertainment"],
    "needs_visualization": true,
    "priority": 3,
    "confidence": 0.9,
    "intent_summary": "User wants to see spending trends for food and entertainment this month"
}`, query)
}

func analysisType(query string, ai models.AIPayload) models.AnalysisType {
	if v, ok := ai.String("analysis_type"); ok && models.AnalysisType(v).Valid() {
		return models.AnalysisType(v)
	}
	for _, rule := range analysisRules {
		if containsAny(query, rule.keywords) {
			return rule.analysis
		}
	}
	return models.AnalysisGeneral
}

func timePeriod(query string, ai models.AIPayload) string {
	if v, ok := ai.String("time_period"); ok && v != "" {
		return v
	}
	for _, p := range timePeriodPhrases {
		if strings.Contains(query, p.phrase) {
			return strings.ReplaceAll(p.phrase, " ", "_")
		}
	}
	return defaultTimePeriod
}

func categories(query string, ai models.AIPayload) []string {
	if v, ok := ai.Strings("categories"); ok {
		return v
	}
	found := []string{}
	for _, rule := range categoryRules {
		if containsAny(query, rule.keywords) {
			found = append(found, rule.name)
		}
	}
	return found
}

func needsVisualization(query string, ai models.AIPayload) bool {
	if v, ok := ai.Bool("needs_visualization"); ok {
		return v
	}
	return containsAny(query, visualizationKeywords)
}

func priority(query string, ai models.AIPayload) int {
	if v, ok := ai.Float("priority"); ok {
		return int(clamp(v, 1, 5))
	}
	if containsAny(query, urgencyKeywords) {
		return 5
	}
	return 3
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clarify asks the user to narrow down an ambiguous query.
func (s *QueryUnderstandingService) Clarify(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(`The user asked: "%s"

Generate a helpful clarification question to help the user specify what they want.
Be friendly and offer 2-3 specific options.

Example: "I can help you with that! Did you want to see:
1. Your spending trends over time
2. A breakdown by spending categories
3. How your spending has improved recently"`, query)

	return attemptOr(func() (string, bool) {
		text := s.llm.GenerateText(ctx, prompt, descriptionMaxTokens, defaultTemperature)
		return text, text != ""
	}, defaultClarification)
}

// SuggestRelated returns up to five follow-up questions.
func (s *QueryUnderstandingService) SuggestRelated(ctx context.Context, query string) []string {
	prompt := fmt.Sprintf(`Based on this user query: "%s"

Suggest 3-5 related questions the user might want to ask about their spending data.
Make them specific and actionable.

Examples:
- "Show me my coffee spending this month"
- "How much did I spend on entertainment last week?"
- "Compare my spending this month vs last month"
- "What's my biggest expense category?"
- "Am I spending more or less than usual?"

Return them as {"suggestions": ["question 1", "question 2"]}.`, query)

	fallback := make([]string, len(defaultSuggestions))
	copy(fallback, defaultSuggestions)

	return attemptOr(func() ([]string, bool) {
		suggestions, ok := s.llm.GenerateStructured(ctx, prompt).Strings("suggestions")
		if !ok || len(suggestions) == 0 {
			return nil, false
		}
		if len(suggestions) > maxRelatedSuggestions {
			suggestions = suggestions[:maxRelatedSuggestions]
		}
		return suggestions, true
	}, fallback)
}
