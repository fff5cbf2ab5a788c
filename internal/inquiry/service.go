package inquiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RMahshie/lumen/internal/repository"
	"github.com/RMahshie/lumen/internal/storage"
	"github.com/RMahshie/lumen/internal/vision"
	"github.com/RMahshie/lumen/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// ProcessingService runs inquiries against the vision model
type ProcessingService interface {
	ProcessInquiry(ctx context.Context, inquiryID uuid.UUID) error
	Start(inquiryID uuid.UUID)
	Shutdown(ctx context.Context) error
}

// Config tunes the processing service
type Config struct {
	Instruction string
	Timeout     time.Duration
	Concurrency int
}

type processingService struct {
	store       storage.S3Service
	repository  repository.InquiryRepository
	client      vision.Client
	instruction string
	timeout     time.Duration
	sem         *semaphore.Weighted
	wg          sync.WaitGroup
}

// NewProcessingService creates a processing service
func NewProcessingService(store storage.S3Service, repo repository.InquiryRepository, client vision.Client, cfg Config) ProcessingService {
	if cfg.Instruction == "" {
		cfg.Instruction = vision.DefaultInstruction
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	return &processingService{
		store:       store,
		repository:  repo,
		client:      client,
		instruction: cfg.Instruction,
		timeout:     cfg.Timeout,
		sem:         semaphore.NewWeighted(int64(cfg.Concurrency)),
	}
}

func (s *processingService) ProcessInquiry(ctx context.Context, inquiryID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, inquiryID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get inquiry details
	inquiry, err := s.repository.GetByID(ctx, inquiryID)
	if err != nil {
		return err
	}

	// Step 3: Download the image
	if err := s.repository.UpdateStatus(ctx, inquiryID, models.StatusProcessing, 30); err != nil {
		return err
	}
	data, err := s.store.DownloadFile(ctx, inquiry.ImageKey)
	if err != nil {
		return s.fail(ctx, inquiryID, err)
	}

	img, err := vision.NewImage(inquiry.MimeType, data)
	if err != nil {
		return s.fail(ctx, inquiryID, err)
	}

	// Step 4: Ask the model
	if err := s.repository.UpdateStatus(ctx, inquiryID, models.StatusProcessing, 60); err != nil {
		return err
	}
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.client.Generate(genCtx, s.instruction, img, inquiry.Question)
	if err != nil {
		return s.fail(ctx, inquiryID, err)
	}

	// Step 5: Store the answer, which also marks the inquiry complete
	if err := s.repository.UpdateStatus(ctx, inquiryID, models.StatusProcessing, 90); err != nil {
		return err
	}
	if err := s.repository.StoreAnswer(ctx, inquiryID, answer, s.client.Model()); err != nil {
		return err
	}

	log.Info().Str("inquiryID", inquiryID.String()).Int("answerLength", len(answer)).Msg("Inquiry completed")
	return nil
}

// fail records the upstream message on the inquiry. The inquiry is terminal
// afterwards, so only a failure to record it is returned.
func (s *processingService) fail(ctx context.Context, inquiryID uuid.UUID, cause error) error {
	log.Warn().Err(cause).Str("inquiryID", inquiryID.String()).Msg("Inquiry failed")
	if err := s.repository.UpdateError(ctx, inquiryID, fmt.Sprintf("Error: %v", cause)); err != nil {
		return fmt.Errorf("failed to record inquiry error: %w", err)
	}
	return nil
}

// Start processes the inquiry in the background, bounded by the concurrency limit
func (s *processingService) Start(inquiryID uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx := context.Background()

		if err := s.sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Str("inquiryID", inquiryID.String()).Msg("Failed to acquire processing slot")
			return
		}
		defer s.sem.Release(1)

		if err := s.ProcessInquiry(ctx, inquiryID); err != nil {
			log.Error().Err(err).Str("inquiryID", inquiryID.String()).Msg("Processing failed")
			if updateErr := s.repository.UpdateError(ctx, inquiryID, fmt.Sprintf("Processing failed: %v", err)); updateErr != nil {
				log.Error().Err(updateErr).Str("inquiryID", inquiryID.String()).Msg("Failed to record processing failure")
			}
		}
	}()
}

// Shutdown waits for in-flight inquiries or until ctx is done
func (s *processingService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
