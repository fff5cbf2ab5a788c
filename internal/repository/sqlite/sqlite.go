package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/lumen/internal/repository"
	"github.com/RMahshie/lumen/pkg/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Repository implements repository.InquiryRepository using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.InquiryRepository = (*Repository)(nil)

// New opens (or creates) the SQLite database at dbPath
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inquiries (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		question TEXT NOT NULL DEFAULT '',
		image_key TEXT NOT NULL,
		mime_type TEXT NOT NULL,
		status TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		answer TEXT,
		error_message TEXT,
		model TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		completed_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_inquiries_session ON inquiries(session_id, created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create inserts a new inquiry
func (r *Repository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inquiries (id, session_id, question, image_key, mime_type, status, progress, model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inquiry.ID,
		inquiry.SessionID,
		inquiry.Question,
		inquiry.ImageKey,
		inquiry.MimeType,
		inquiry.Status,
		inquiry.Progress,
		inquiry.Model,
		toMillis(inquiry.CreatedAt),
		toMillis(inquiry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert inquiry: %w", err)
	}
	return nil
}

// GetByID loads one inquiry
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	var row inquiryRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+inquiryColumns+` FROM inquiries WHERE id = ?`, id.String(),
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiry: %w", err)
	}
	return row.toModel(), nil
}

// GetBySessionID lists a session's inquiries, newest first
func (r *Repository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Inquiry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inquiryColumns+` FROM inquiries WHERE session_id = ? ORDER BY created_at DESC, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []*models.Inquiry
	for rows.Next() {
		var row inquiryRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, row.toModel())
	}
	return inquiries, rows.Err()
}

// UpdateStatus sets status and progress
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	now := toMillis(r.now())
	var completedAt sql.NullInt64
	if status == models.StatusCompleted {
		completedAt = sql.NullInt64{Int64: now, Valid: true}
	}
	return r.execOne(ctx, `
		UPDATE inquiries
		SET status = ?, progress = ?, updated_at = ?, completed_at = COALESCE(?, completed_at)
		WHERE id = ?`,
		status, progress, now, completedAt, id.String())
}

// UpdateError marks the inquiry failed
func (r *Repository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	now := toMillis(r.now())
	return r.execOne(ctx, `
		UPDATE inquiries
		SET status = 'failed', error_message = ?, updated_at = ?, completed_at = ?
		WHERE id = ?`,
		errorMsg, now, now, id.String())
}

// StoreAnswer saves the answer and completes the inquiry
func (r *Repository) StoreAnswer(ctx context.Context, id uuid.UUID, answer, model string) error {
	now := toMillis(r.now())
	return r.execOne(ctx, `
		UPDATE inquiries
		SET answer = ?, model = ?, status = 'completed', progress = 100, error_message = NULL,
		    updated_at = ?, completed_at = ?
		WHERE id = ?`,
		answer, model, now, now, id.String())
}

func (r *Repository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update inquiry: %w", err)
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
