package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RMahshie/lumen/internal/repository"
	"github.com/RMahshie/lumen/pkg/models"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS inquiries (
	id            UUID PRIMARY KEY,
	session_id    TEXT NOT NULL,
	question      TEXT NOT NULL DEFAULT '',
	image_key     TEXT NOT NULL,
	mime_type     TEXT NOT NULL,
	status        TEXT NOT NULL,
	progress      INTEGER NOT NULL DEFAULT 0,
	answer        TEXT,
	error_message TEXT,
	model         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	completed_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_inquiries_session ON inquiries(session_id, created_at DESC);
`

const inquiryColumns = `id, session_id, question, image_key, mime_type, status, progress, answer, error_message, model, created_at, updated_at, completed_at`

// PostgresInquiryRepository implements InquiryRepository for PostgreSQL
type PostgresInquiryRepository struct {
	db *sql.DB
}

// Open connects to PostgreSQL and applies the schema
func Open(ctx context.Context, url string) (*PostgresInquiryRepository, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := NewPostgresInquiryRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewPostgresInquiryRepository creates a new PostgreSQL inquiry repository
func NewPostgresInquiryRepository(db *sql.DB) *PostgresInquiryRepository {
	return &PostgresInquiryRepository{db: db}
}

var _ repository.InquiryRepository = (*PostgresInquiryRepository)(nil)

// Migrate creates the inquiries table if needed
func (r *PostgresInquiryRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the database handle
func (r *PostgresInquiryRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new inquiry record
func (r *PostgresInquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, session_id, question, image_key, mime_type, status, progress, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		inquiry.ID,
		inquiry.SessionID,
		inquiry.Question,
		inquiry.ImageKey,
		inquiry.MimeType,
		inquiry.Status,
		inquiry.Progress,
		inquiry.Model,
		inquiry.CreatedAt,
		inquiry.UpdatedAt)

	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInquiry(row rowScanner) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	var answer, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&inquiry.ID,
		&inquiry.SessionID,
		&inquiry.Question,
		&inquiry.ImageKey,
		&inquiry.MimeType,
		&inquiry.Status,
		&inquiry.Progress,
		&answer,
		&errorMsg,
		&inquiry.Model,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if answer.Valid {
		inquiry.Answer = &answer.String
	}
	if errorMsg.Valid {
		inquiry.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		inquiry.CompletedAt = &completedAt.Time
	}

	return &inquiry, nil
}

// GetByID retrieves an inquiry by ID
func (r *PostgresInquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1`

	inquiry, err := scanInquiry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return inquiry, err
}

// GetBySessionID retrieves inquiries by session ID, newest first
func (r *PostgresInquiryRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE session_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []*models.Inquiry
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, inquiry)
	}

	return inquiries, rows.Err()
}

// UpdateStatus updates the status and progress of an inquiry
func (r *PostgresInquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE inquiries
		SET status = $1::text, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1::text = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	return execOne(ctx, r.db, query, status, progress, id)
}

// UpdateError marks the inquiry failed with the upstream message
func (r *PostgresInquiryRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE inquiries
		SET status = 'failed', error_message = $1, updated_at = NOW(), completed_at = NOW()
		WHERE id = $2`

	return execOne(ctx, r.db, query, errorMsg, id)
}

// StoreAnswer saves the model response and completes the inquiry
func (r *PostgresInquiryRepository) StoreAnswer(ctx context.Context, id uuid.UUID, answer, model string) error {
	query := `
		UPDATE inquiries
		SET answer = $1, model = $2, status = 'completed', progress = 100, error_message = NULL,
		    updated_at = NOW(), completed_at = NOW()
		WHERE id = $3`

	return execOne(ctx, r.db, query, answer, model, id)
}

func execOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
