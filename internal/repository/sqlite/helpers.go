package sqlite

import (
	"database/sql"
	"time"

	"github.com/RMahshie/lumen/pkg/models"
)

// ============================================================================
// Time Conversion Helpers
// ============================================================================
//
// Timestamps are stored as Unix milliseconds so ORDER BY sorts chronologically.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullToTimePtr(ni sql.NullInt64) *time.Time {
	if !ni.Valid {
		return nil
	}
	t := fromMillis(ni.Int64)
	return &t
}

func nullToStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// ============================================================================
// Inquiry Row Scanner
// ============================================================================
//
// Column order must match between inquiryColumns and scanArgs().

const inquiryColumns = `id, session_id, question, image_key, mime_type, status, progress, answer, error_message, model, created_at, updated_at, completed_at`

// inquiryRow holds all columns from an inquiry query for scanning
type inquiryRow struct {
	ID          string
	SessionID   string
	Question    string
	ImageKey    string
	MimeType    string
	Status      string
	Progress    int
	Answer      sql.NullString
	ErrorMsg    sql.NullString
	Model       string
	CreatedAt   int64
	UpdatedAt   int64
	CompletedAt sql.NullInt64
}

func (r *inquiryRow) scanArgs() []any {
	return []any{
		&r.ID,
		&r.SessionID,
		&r.Question,
		&r.ImageKey,
		&r.MimeType,
		&r.Status,
		&r.Progress,
		&r.Answer,
		&r.ErrorMsg,
		&r.Model,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.CompletedAt,
	}
}

func (r *inquiryRow) toModel() *models.Inquiry {
	return &models.Inquiry{
		ID:          r.ID,
		SessionID:   r.SessionID,
		Question:    r.Question,
		ImageKey:    r.ImageKey,
		MimeType:    r.MimeType,
		Status:      r.Status,
		Progress:    r.Progress,
		Answer:      nullToStringPtr(r.Answer),
		ErrorMsg:    nullToStringPtr(r.ErrorMsg),
		Model:       r.Model,
		CreatedAt:   fromMillis(r.CreatedAt),
		UpdatedAt:   fromMillis(r.UpdatedAt),
		CompletedAt: nullToTimePtr(r.CompletedAt),
	}
}
