package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/RMahshie/lumen/internal/repository"
	"github.com/RMahshie/lumen/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newInquiry(sessionID string, createdAt time.Time) *models.Inquiry {
	return &models.Inquiry{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Question:  "Which languages does the candidate speak?",
		ImageKey:  "images/cv.jpg",
		MimeType:  "image/jpeg",
		Status:    models.StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	inquiry := newInquiry("session-a", created)
	require.NoError(t, repo.Create(ctx, inquiry))

	got, err := repo.GetByID(ctx, uuid.MustParse(inquiry.ID))
	require.NoError(t, err)

	assert.Equal(t, inquiry.ID, got.ID)
	assert.Equal(t, inquiry.Question, got.Question)
	assert.Equal(t, "image/jpeg", got.MimeType)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Nil(t, got.Answer)
	assert.Nil(t, got.ErrorMsg)
	assert.Nil(t, got.CompletedAt)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_StatusTransitions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	fixed := time.Date(2025, 3, 1, 12, 5, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	inquiry := newInquiry("session-a", fixed.Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, inquiry))
	id := uuid.MustParse(inquiry.ID)

	require.NoError(t, repo.UpdateStatus(ctx, id, models.StatusProcessing, 60))
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
	assert.Equal(t, 60, got.Progress)
	assert.Nil(t, got.CompletedAt)
	assert.True(t, fixed.Equal(got.UpdatedAt))

	require.NoError(t, repo.StoreAnswer(ctx, id, "English, German", "gemini-2.5-flash"))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.Answer)
	assert.Equal(t, "English, German", *got.Answer)
	assert.Equal(t, "gemini-2.5-flash", got.Model)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, fixed.Equal(*got.CompletedAt))
}

func TestRepository_UpdateError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inquiry := newInquiry("session-a", time.Now())
	require.NoError(t, repo.Create(ctx, inquiry))
	id := uuid.MustParse(inquiry.ID)

	require.NoError(t, repo.UpdateError(ctx, id, "Error: permission denied"))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMsg)
	assert.Equal(t, "Error: permission denied", *got.ErrorMsg)
	assert.NotNil(t, got.CompletedAt)
}

func TestRepository_UpdateMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), models.StatusProcessing, 10), repository.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateError(ctx, uuid.New(), "x"), repository.ErrNotFound)
	assert.ErrorIs(t, repo.StoreAnswer(ctx, uuid.New(), "x", "m"), repository.ErrNotFound)
}

func TestRepository_GetBySessionID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := newInquiry("session-a", base)
	second := newInquiry("session-a", base.Add(time.Second))
	third := newInquiry("session-a", base.Add(2*time.Second))
	other := newInquiry("session-b", base)
	for _, i := range []*models.Inquiry{second, first, third, other} {
		require.NoError(t, repo.Create(ctx, i))
	}

	list, err := repo.GetBySessionID(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, first.ID, list[2].ID)

	empty, err := repo.GetBySessionID(ctx, "session-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.db")
	ctx := context.Background()

	repo, err := New(path)
	require.NoError(t, err)
	inquiry := newInquiry("session-file", time.Now())
	require.NoError(t, repo.Create(ctx, inquiry))
	require.NoError(t, repo.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetByID(ctx, uuid.MustParse(inquiry.ID))
	require.NoError(t, err)
	assert.Equal(t, inquiry.SessionID, got.SessionID)
}
