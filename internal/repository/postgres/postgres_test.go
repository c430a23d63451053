package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"urlshortener/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тесты идут против живой базы из DATABASE_DSN, без нее пропускаются.
func newTestStorage(t *testing.T) *PostgresStorage {
	t.Helper()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN is not set")
	}

	s, err := NewStorage(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func uniqueUser(t *testing.T, s *PostgresStorage) models.User {
	t.Helper()

	name := "user_" + uuid.NewString()[:8]
	now := time.Now().UTC()
	u, err := s.UserCreate(context.Background(), models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return u
}

func TestPostgresStorage_Users(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u := uniqueUser(t, s)
	assert.Positive(t, u.ID)

	_, err := s.UserCreate(ctx, models.User{Username: u.Username, Email: "x" + u.Email, PasswordHash: "h"})
	require.ErrorIs(t, err, models.ErrConflict)

	got, err := s.UserGetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.UserGetByUsername(ctx, "missing_"+uuid.NewString())
	require.ErrorIs(t, err, models.ErrUnfound)
}

func TestPostgresStorage_Links(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	u := uniqueUser(t, s)

	code := uuid.NewString()[:5]
	now := time.Now().UTC()
	link, err := s.LinkCreate(ctx, models.ShortenedLink{
		ShortCode: code, OriginalURL: "https://example.com", UserID: u.ID, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = s.LinkCreate(ctx, models.ShortenedLink{ShortCode: code, OriginalURL: "https://x", UserID: u.ID})
	require.ErrorIs(t, err, models.ErrConflict)

	clicked, err := s.LinkIncrementClicks(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), clicked.Clicks)

	link.IsActive = false
	updated, err := s.LinkUpdate(ctx, link)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, int64(1), updated.Clicks)

	list, err := s.LinkListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.LinkDelete(ctx, link.ID))
	require.ErrorIs(t, s.LinkDelete(ctx, link.ID), models.ErrUnfound)
}

func TestPostgresStorage_WithinTxRollback(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	u := uniqueUser(t, s)

	code := uuid.NewString()[:5]
	errAbort := errors.New("abort")

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.LinkCreate(ctx, models.ShortenedLink{ShortCode: code, OriginalURL: "https://example.com", UserID: u.ID, IsActive: true})
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	_, err = s.LinkGetByCode(ctx, code)
	require.ErrorIs(t, err, models.ErrUnfound, "вставка откатилась вместе с транзакцией")
}
