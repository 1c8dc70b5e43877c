package models

type AnalysisType string

const (
	AnalysisSpendingTrends AnalysisType = "spending_trends"
	AnalysisCategory       AnalysisType = "category_analysis"
	AnalysisImprovement    AnalysisType = "improvement"
	AnalysisGeneral        AnalysisType = "general"
)

func (a AnalysisType) Valid() bool {
	switch a {
	case AnalysisSpendingTrends, AnalysisCategory, AnalysisImprovement, AnalysisGeneral:
		return true
	}
	return false
}

// QueryIntent is the structured reading of one natural-language question.
type QueryIntent struct {
	OriginalQuery      string       `json:"original_query"`
	AnalysisType       AnalysisType `json:"analysis_type"`
	TimePeriod         string       `json:"time_period"`
	Categories         []string     `json:"categories"`
	NeedsVisualization bool         `json:"needs_visualization"`
	Priority           int          `json:"priority"`
	Confidence         float64      `json:"confidence"`
}

func (i QueryIntent) HasCategory(category string) bool {
	for _, c := range i.Categories {
		if c == category {
			return true
		}
	}
	return false
}
