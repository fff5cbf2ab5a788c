package models

import (
	"mime/multipart"
	"time"
)

// CreateInquiryRequest is the multipart upload of an image and a question.
// Form fields: session_id, question, image.
type CreateInquiryRequest struct {
	RawBody multipart.Form
}

// CreateInquiryResponseBody is the body of the create inquiry response
type CreateInquiryResponseBody struct {
	ID        string `json:"id" doc:"Inquiry unique identifier"`
	SessionID string `json:"session_id" doc:"Client session identifier"`
	Status    string `json:"status" enum:"pending,processing,completed,failed" doc:"Inquiry status"`
}

// CreateInquiryResponse represents the response from creating an inquiry
type CreateInquiryResponse struct {
	Body CreateInquiryResponseBody
}

// GetInquiryRequest addresses a single inquiry
type GetInquiryRequest struct {
	ID string `path:"id" doc:"Inquiry ID"`
}

// GetInquiryStatusResponseBody is the body of the status response
type GetInquiryStatusResponseBody struct {
	ID       string  `json:"id" doc:"Inquiry ID"`
	Status   string  `json:"status" enum:"pending,processing,completed,failed" doc:"Inquiry status"`
	Progress int     `json:"progress" minimum:"0" maximum:"100" doc:"Progress percentage"`
	Message  string  `json:"message,omitempty" doc:"Human-readable status message"`
	Error    *string `json:"error,omitempty" doc:"Upstream failure message"`
}

// GetInquiryStatusResponse represents the current status of an inquiry
type GetInquiryStatusResponse struct {
	Body GetInquiryStatusResponseBody
}

// InquiryBody is the public view of a finished inquiry
type InquiryBody struct {
	ID          string     `json:"id" doc:"Inquiry ID"`
	SessionID   string     `json:"session_id" doc:"Client session identifier"`
	Question    string     `json:"question" doc:"Question asked about the image"`
	MimeType    string     `json:"mime_type" doc:"Uploaded image MIME type"`
	Status      string     `json:"status" doc:"Inquiry status"`
	Answer      *string    `json:"answer,omitempty" doc:"Model response text"`
	Error       *string    `json:"error,omitempty" doc:"Upstream failure message"`
	Model       string     `json:"model" doc:"Model that produced the answer"`
	CreatedAt   time.Time  `json:"created_at" doc:"Creation timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" doc:"Completion timestamp"`
}

// NewInquiryBody converts an inquiry to its public view
func NewInquiryBody(i *Inquiry) InquiryBody {
	return InquiryBody{
		ID:          i.ID,
		SessionID:   i.SessionID,
		Question:    i.Question,
		MimeType:    i.MimeType,
		Status:      i.Status,
		Answer:      i.Answer,
		Error:       i.ErrorMsg,
		Model:       i.Model,
		CreatedAt:   i.CreatedAt,
		CompletedAt: i.CompletedAt,
	}
}

// GetInquiryResponse returns a finished inquiry
type GetInquiryResponse struct {
	Body InquiryBody
}

// GetInquiryImageResponse carries a presigned download URL
type GetInquiryImageResponse struct {
	Body struct {
		URL       string `json:"url" doc:"Pre-signed download URL"`
		ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}

// ListSessionInquiriesRequest addresses a session
type ListSessionInquiriesRequest struct {
	SessionID string `path:"session_id" minLength:"1" maxLength:"50" doc:"Client session identifier"`
}

// ListSessionInquiriesResponse lists a session's inquiries, newest first
type ListSessionInquiriesResponse struct {
	Body struct {
		Inquiries []InquiryBody `json:"inquiries" doc:"Inquiries, newest first"`
	}
}

// ExportSessionRequest selects the export format for a session
type ExportSessionRequest struct {
	SessionID string `path:"session_id" minLength:"1" maxLength:"50" doc:"Client session identifier"`
	Format    string `query:"format" enum:"csv,json" default:"csv" doc:"Export format"`
}

// FileResponse is a raw download
type FileResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}
