package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/RMahshie/lumen/internal/repository"
	"github.com/RMahshie/lumen/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a PostgreSQL container and returns a migrated repository
func setupPostgres(t *testing.T) *PostgresInquiryRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("lumen_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	repo, err := Open(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func newInquiry(sessionID string, createdAt time.Time) *models.Inquiry {
	return &models.Inquiry{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Question:  "What is the candidate's most recent role?",
		ImageKey:  "images/test.png",
		MimeType:  "image/png",
		Status:    models.StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestPostgresInquiryRepository_Lifecycle_Integration(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	inquiry := newInquiry("session-lifecycle", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, inquiry))

	id := uuid.MustParse(inquiry.ID)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.Answer)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, repo.UpdateStatus(ctx, id, models.StatusProcessing, 30))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Progress)

	require.NoError(t, repo.StoreAnswer(ctx, id, "Senior engineer at Acme", "gemini-2.5-flash"))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.Answer)
	assert.Equal(t, "Senior engineer at Acme", *got.Answer)
	assert.Equal(t, "gemini-2.5-flash", got.Model)
	assert.NotNil(t, got.CompletedAt)
}

func TestPostgresInquiryRepository_UpdateError_Integration(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	inquiry := newInquiry("session-error", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, inquiry))
	id := uuid.MustParse(inquiry.ID)

	require.NoError(t, repo.UpdateError(ctx, id, "Error: quota exceeded"))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMsg)
	assert.Equal(t, "Error: quota exceeded", *got.ErrorMsg)
}

func TestPostgresInquiryRepository_GetBySessionID_Integration(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	older := newInquiry("session-list", base.Add(-time.Minute))
	newer := newInquiry("session-list", base)
	other := newInquiry("session-other", base)
	for _, i := range []*models.Inquiry{older, newer, other} {
		require.NoError(t, repo.Create(ctx, i))
	}

	list, err := repo.GetBySessionID(ctx, "session-list")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestPostgresInquiryRepository_NotFound_Integration(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.UpdateStatus(ctx, uuid.New(), models.StatusProcessing, 10)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
