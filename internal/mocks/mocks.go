// Package mocks provides testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/RMahshie/lumen/internal/vision"
	"github.com/RMahshie/lumen/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// InquiryRepository implements repository.InquiryRepository for testing
type InquiryRepository struct {
	mock.Mock
}

func (m *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	args := m.Called(ctx, id)
	inquiry, _ := args.Get(0).(*models.Inquiry)
	return inquiry, args.Error(1)
}

func (m *InquiryRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Inquiry, error) {
	args := m.Called(ctx, sessionID)
	inquiries, _ := args.Get(0).([]*models.Inquiry)
	return inquiries, args.Error(1)
}

func (m *InquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *InquiryRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *InquiryRepository) StoreAnswer(ctx context.Context, id uuid.UUID, answer, model string) error {
	args := m.Called(ctx, id, answer, model)
	return args.Error(0)
}

func (m *InquiryRepository) Close() error {
	return m.Called().Error(0)
}

// S3Service implements storage.S3Service for testing
type S3Service struct {
	mock.Mock
}

func (m *S3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *S3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *S3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *S3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// VisionClient implements vision.Client for testing
type VisionClient struct {
	mock.Mock
}

func (m *VisionClient) Generate(ctx context.Context, instruction string, img vision.Image, query string) (string, error) {
	args := m.Called(ctx, instruction, img, query)
	return args.String(0), args.Error(1)
}

func (m *VisionClient) Model() string {
	return m.Called().String(0)
}

// ProcessingService implements inquiry.ProcessingService for testing
type ProcessingService struct {
	mock.Mock
}

func (m *ProcessingService) ProcessInquiry(ctx context.Context, inquiryID uuid.UUID) error {
	args := m.Called(ctx, inquiryID)
	return args.Error(0)
}

func (m *ProcessingService) Start(inquiryID uuid.UUID) {
	m.Called(inquiryID)
}

func (m *ProcessingService) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
