package models

import (
	"time"
)

// Inquiry statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// Inquiry represents one image + question sent to the vision model (for internal use)
type Inquiry struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Question    string     `json:"question"`
	ImageKey    string     `json:"image_key"`
	MimeType    string     `json:"mime_type"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	Answer      *string    `json:"answer,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	Model       string     `json:"model"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Finished reports whether the inquiry reached a terminal status
func (i *Inquiry) Finished() bool {
	return i.Status == StatusCompleted || i.Status == StatusFailed
}
