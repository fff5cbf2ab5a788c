package inquiry

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/RMahshie/lumen/pkg/models"
)

// CSVHeader is the first row written by WriteCSV
var CSVHeader = []string{"id", "session_id", "created_at", "status", "question", "answer", "error", "model"}

// WriteCSV writes one row per inquiry
func WriteCSV(w io.Writer, inquiries []*models.Inquiry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, i := range inquiries {
		row := []string{
			i.ID,
			i.SessionID,
			i.CreatedAt.UTC().Format(time.RFC3339),
			i.Status,
			i.Question,
			deref(i.Answer),
			deref(i.ErrorMsg),
			i.Model,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", i.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the public view of the inquiries as a JSON array
func WriteJSON(w io.Writer, inquiries []*models.Inquiry) error {
	bodies := make([]models.InquiryBody, 0, len(inquiries))
	for _, i := range inquiries {
		bodies = append(bodies, models.NewInquiryBody(i))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bodies); err != nil {
		return fmt.Errorf("failed to encode inquiries: %w", err)
	}
	return nil
}

// ExportFilename names a session export download
func ExportFilename(sessionID, format string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, sessionID)
	return "inquiries-" + safe + "." + format
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
