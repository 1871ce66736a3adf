package server

import "github.com/poiesic/tupper/filter"

// QuestionRequest is the body of /v1/ask and /v1/filters.
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskResponse is the body of a successful /v1/ask.
type AskResponse struct {
	Answer   string `json:"answer"`
	State    string `json:"state"`
	Strict   int    `json:"strict"`
	Fallback int    `json:"fallback"`
}

// FiltersResponse is the body of a successful /v1/filters.
type FiltersResponse struct {
	Constraints filter.ConstraintSet `json:"constraints"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status string `json:"status"`
	Dishes int    `json:"dishes"`
}

// ErrorResponse carries a client-safe message.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
