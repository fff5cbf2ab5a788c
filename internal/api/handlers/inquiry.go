package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RMahshie/lumen/internal/inquiry"
	"github.com/RMahshie/lumen/internal/repository"
	"github.com/RMahshie/lumen/internal/storage"
	"github.com/RMahshie/lumen/internal/vision"
	"github.com/RMahshie/lumen/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// MaxQuestionLength bounds the question text in runes
	MaxQuestionLength = 2000
	// DefaultMaxUploadBytes bounds uploaded images when no limit is configured
	DefaultMaxUploadBytes = 10 << 20
)

// InquiryHandler handles inquiry-related HTTP requests
type InquiryHandler struct {
	repo           repository.InquiryRepository
	s3Service      storage.S3Service
	processingSvc  inquiry.ProcessingService
	model          string
	maxUploadBytes int64
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(repo repository.InquiryRepository, s3Service storage.S3Service, processingSvc inquiry.ProcessingService, model string, maxUploadBytes int64) *InquiryHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &InquiryHandler{
		repo:           repo,
		s3Service:      s3Service,
		processingSvc:  processingSvc,
		model:          model,
		maxUploadBytes: maxUploadBytes,
	}
}

// MaxUploadBytes returns the configured image size limit
func (h *InquiryHandler) MaxUploadBytes() int64 {
	return h.maxUploadBytes
}

// CreateInquiry stores the uploaded image, records the inquiry and starts processing
func (h *InquiryHandler) CreateInquiry(ctx context.Context, req *models.CreateInquiryRequest) (*models.CreateInquiryResponse, error) {
	form := &req.RawBody

	sessionID := strings.TrimSpace(formValue(form, "session_id"))
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	if len(sessionID) > 50 {
		return nil, huma.Error400BadRequest("Session ID must be at most 50 characters.", nil)
	}

	question := strings.TrimSpace(formValue(form, "question"))
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return nil, huma.Error400BadRequest(fmt.Sprintf("Question must be at most %d characters.", MaxQuestionLength), nil)
	}

	files := form.File["image"]
	if len(files) == 0 {
		return nil, huma.Error400BadRequest("Please upload an image.", vision.ErrNoImage)
	}
	header := files[0]
	if header.Size > h.maxUploadBytes {
		return nil, huma.Error400BadRequest("Image too large. Please upload a smaller image.", nil)
	}

	data, err := readUpload(header, h.maxUploadBytes)
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to read uploaded image.", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	img, err := vision.NewImage(mimeType, data)
	if err != nil {
		if errors.Is(err, vision.ErrNoImage) {
			return nil, huma.Error400BadRequest("Please upload an image.", err)
		}
		return nil, huma.Error400BadRequest("Image format not supported. Please upload PNG, JPEG, WebP or HEIC.", err)
	}

	inquiryID := uuid.New()
	imageKey := fmt.Sprintf("images/%s%s", inquiryID, vision.Extension(img.MimeType))
	log.Info().Str("inquiryID", inquiryID.String()).Str("sessionID", sessionID).Str("mimeType", img.MimeType).Int("imageBytes", len(img.Data)).Msg("Creating new inquiry")

	if err := h.s3Service.UploadFile(ctx, imageKey, img.MimeType, img.Data); err != nil {
		return nil, huma.Error500InternalServerError("Failed to store image. Please try again.", err)
	}

	now := time.Now().UTC()
	record := &models.Inquiry{
		ID:        inquiryID.String(),
		SessionID: sessionID,
		Question:  question,
		ImageKey:  imageKey,
		MimeType:  img.MimeType,
		Status:    models.StatusPending,
		Progress:  0,
		Model:     h.model,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(ctx, record); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create inquiry", err)
	}

	h.processingSvc.Start(inquiryID)
	log.Info().Str("inquiryID", inquiryID.String()).Msg("Inquiry created, processing started")

	return &models.CreateInquiryResponse{
		Body: models.CreateInquiryResponseBody{
			ID:        record.ID,
			SessionID: record.SessionID,
			Status:    record.Status,
		},
	}, nil
}

// GetInquiryStatus returns the current status of an inquiry
func (h *InquiryHandler) GetInquiryStatus(ctx context.Context, req *models.GetInquiryRequest) (*models.GetInquiryStatusResponse, error) {
	record, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &models.GetInquiryStatusResponse{
		Body: models.GetInquiryStatusResponseBody{
			ID:       record.ID,
			Status:   record.Status,
			Progress: record.Progress,
			Message:  generateStatusMessage(record.Status, record.Progress),
			Error:    record.ErrorMsg,
		},
	}, nil
}

// GetInquiry returns a finished inquiry with its answer or error
func (h *InquiryHandler) GetInquiry(ctx context.Context, req *models.GetInquiryRequest) (*models.GetInquiryResponse, error) {
	record, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if !record.Finished() {
		return nil, huma.Error409Conflict("Inquiry not yet completed",
			fmt.Errorf("inquiry status is %s", record.Status))
	}

	return &models.GetInquiryResponse{Body: models.NewInquiryBody(record)}, nil
}

// GetInquiryImage returns a presigned URL for the uploaded image
func (h *InquiryHandler) GetInquiryImage(ctx context.Context, req *models.GetInquiryRequest) (*models.GetInquiryImageResponse, error) {
	record, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	url, err := h.s3Service.GenerateDownloadURL(ctx, record.ImageKey)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate image URL", err)
	}

	resp := &models.GetInquiryImageResponse{}
	resp.Body.URL = url
	resp.Body.ExpiresIn = int(storage.DownloadURLExpiry.Seconds())
	return resp, nil
}

// ListSessionInquiries lists a session's inquiries, newest first
func (h *InquiryHandler) ListSessionInquiries(ctx context.Context, req *models.ListSessionInquiriesRequest) (*models.ListSessionInquiriesResponse, error) {
	records, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list inquiries", err)
	}

	resp := &models.ListSessionInquiriesResponse{}
	resp.Body.Inquiries = make([]models.InquiryBody, 0, len(records))
	for _, r := range records {
		resp.Body.Inquiries = append(resp.Body.Inquiries, models.NewInquiryBody(r))
	}
	return resp, nil
}

// ExportSession downloads a session's inquiries as CSV or JSON
func (h *InquiryHandler) ExportSession(ctx context.Context, req *models.ExportSessionRequest) (*models.FileResponse, error) {
	records, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list inquiries", err)
	}

	format := req.Format
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	switch format {
	case "csv":
		err = inquiry.WriteCSV(&buf, records)
	case "json":
		contentType = "application/json"
		err = inquiry.WriteJSON(&buf, records)
	default:
		return nil, huma.Error400BadRequest(fmt.Sprintf("Unsupported export format %q", format), nil)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to export inquiries", err)
	}

	return &models.FileResponse{
		ContentType:        contentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", inquiry.ExportFilename(req.SessionID, format)),
		Body:               buf.Bytes(),
	}, nil
}

func (h *InquiryHandler) lookup(ctx context.Context, rawID string) (*models.Inquiry, error) {
	inquiryID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid inquiry ID", err)
	}

	record, err := h.repo.GetByID(ctx, inquiryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error404NotFound("Inquiry not found", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load inquiry", err)
	}
	return record, nil
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func readUpload(header *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image exceeds %d bytes", limit)
	}
	return data, nil
}

// generateStatusMessage creates a human-readable status message
func generateStatusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Inquiry queued for processing..."
	case models.StatusProcessing:
		if progress < 30 {
			return "Starting analysis..."
		} else if progress < 60 {
			return "Loading image..."
		} else if progress < 90 {
			return "Waiting for the model's answer..."
		} else {
			return "Saving the answer..."
		}
	case models.StatusCompleted:
		return "Analysis complete!"
	case models.StatusFailed:
		return "Analysis failed. Please try again."
	default:
		return "Unknown status"
	}
}
