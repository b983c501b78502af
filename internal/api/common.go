package api

import "time"

// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error string `json:"error" example:"Sweet not found"`
}

// swagger:model api.MessageResponse
type MessageResponse struct {
	Message string `json:"message" example:"Sweet deleted successfully"`
}

// swagger:model api.HealthResponse
type HealthResponse struct {
	Status    string    `json:"status" example:"OK"`
	Timestamp time.Time `json:"timestamp"`
}

// swagger:model api.ReadyResponse
type ReadyResponse struct {
	Status string            `json:"status" example:"OK"`
	Checks map[string]string `json:"checks"`
}
