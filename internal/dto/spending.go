package dto

// SpendingResponse wraps one canned spending aggregation.
type SpendingResponse struct {
	Success   bool        `json:"success"`
	Period    string      `json:"period,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}
