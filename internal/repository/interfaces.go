package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/lumen/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no inquiry matches the lookup
var ErrNotFound = errors.New("inquiry not found")

// InquiryRepository defines the interface for inquiry data operations
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Inquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreAnswer(ctx context.Context, id uuid.UUID, answer, model string) error
	Close() error
}
