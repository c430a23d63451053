package inmemory

import (
	"context"
	"sync"
	"testing"
	"time"

	"urlshortener/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInmemoryStorage_Users(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	alice, err := s.UserCreate(ctx, models.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.ID)

	tests := []struct {
		name    string
		user    models.User
		wantErr error
	}{
		{name: "Занятое имя", user: models.User{Username: "alice", Email: "other@example.com"}, wantErr: models.ErrConflict},
		{name: "Занятый email без учета регистра", user: models.User{Username: "bob", Email: "ALICE@example.com"}, wantErr: models.ErrConflict},
		{name: "Пустое имя", user: models.User{Email: "x@example.com"}, wantErr: models.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.UserCreate(ctx, tt.user)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	got, err := s.UserGetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	got, err = s.UserGetByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = s.UserGetByID(ctx, 42)
	require.ErrorIs(t, err, models.ErrUnfound)

	_, err = s.UserGetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, models.ErrUnfound)
}

func TestInmemoryStorage_Links(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	now := time.Now()

	first, err := s.LinkCreate(ctx, models.ShortenedLink{ShortCode: "aaaaa", OriginalURL: "https://a", UserID: 1, IsActive: true, CreatedAt: now})
	require.NoError(t, err)
	second, err := s.LinkCreate(ctx, models.ShortenedLink{ShortCode: "bbbbb", OriginalURL: "https://b", UserID: 1, IsActive: true, CreatedAt: now.Add(time.Second)})
	require.NoError(t, err)
	_, err = s.LinkCreate(ctx, models.ShortenedLink{ShortCode: "ccccc", OriginalURL: "https://c", UserID: 2, CreatedAt: now})
	require.NoError(t, err)

	t.Run("Занятый код", func(t *testing.T) {
		_, err := s.LinkCreate(ctx, models.ShortenedLink{ShortCode: "aaaaa", OriginalURL: "https://x", UserID: 1})
		require.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("Список пользователя, новые первыми", func(t *testing.T) {
		list, err := s.LinkListByUser(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})

	t.Run("Пустой список не nil", func(t *testing.T) {
		list, err := s.LinkListByUser(ctx, 99)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("Обновление не трогает код и счетчик", func(t *testing.T) {
		_, err := s.LinkIncrementClicks(ctx, first.ID)
		require.NoError(t, err)

		upd := first
		upd.OriginalURL = "https://a2"
		upd.IsActive = false
		upd.ShortCode = "zzzzz"
		upd.Clicks = 100

		got, err := s.LinkUpdate(ctx, upd)
		require.NoError(t, err)
		assert.Equal(t, "https://a2", got.OriginalURL)
		assert.False(t, got.IsActive)
		assert.Equal(t, "aaaaa", got.ShortCode)
		assert.Equal(t, int64(1), got.Clicks)
	})

	t.Run("Удаление освобождает код", func(t *testing.T) {
		require.NoError(t, s.LinkDelete(ctx, second.ID))
		_, err := s.LinkGetByCode(ctx, "bbbbb")
		require.ErrorIs(t, err, models.ErrUnfound)
		require.ErrorIs(t, s.LinkDelete(ctx, second.ID), models.ErrUnfound)
	})
}

func TestInmemoryStorage_WithinTx(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	link, err := s.LinkCreate(ctx, models.ShortenedLink{ShortCode: "aaaaa", OriginalURL: "https://a", UserID: 1, IsActive: true})
	require.NoError(t, err)

	// чтение-изменение-запись в транзакциях не теряет обновлений
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithinTx(ctx, func(ctx context.Context) error {
				// вложенная транзакция не блокируется
				return s.WithinTx(ctx, func(ctx context.Context) error {
					_, err := s.LinkIncrementClicks(ctx, link.ID)
					return err
				})
			})
		}()
	}
	wg.Wait()

	got, err := s.LinkGetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Clicks)
}

func TestInmemoryStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStorage()
	require.Error(t, s.Ping(ctx))
	_, err := s.LinkListByUser(ctx, 1)
	require.Error(t, err)
}
