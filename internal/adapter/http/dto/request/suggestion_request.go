package request

// SuggestionRequest carries the free-text job description to draft line
// items from.
type SuggestionRequest struct {
	JobDescription string `json:"job_description" binding:"required"`
}
