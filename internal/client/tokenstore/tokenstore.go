// Package tokenstore persists the bearer token of the client session.
package tokenstore

import (
	"context"
	"sync"

	"urlshortener/internal/domain/models"
)

// Фиксированные ключи хранилища
const (
	KeyAuthToken    = "@url_shortener:auth_token"
	KeyRefreshToken = "@url_shortener:refresh_token"
	KeyUserData     = "@url_shortener:user_data"
)

// sessionKeys очищаются одной логической операцией при logout.
var sessionKeys = []string{KeyAuthToken, KeyRefreshToken, KeyUserData}

// kvBackend - примитив хранения строк по ключу.
type kvBackend interface {
	get(key string) (string, bool, error)
	set(key, value string) error
	remove(keys ...string) error
}

// Store - токен поверх key/value backend. Безопасен для конкурентного
// использования.
type Store struct {
	mu      sync.Mutex
	backend kvBackend
}

// SaveToken перезаписывает токен под фиксированным ключом.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return &models.StorageError{Op: "save", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.set(KeyAuthToken, token); err != nil {
		return &models.StorageError{Op: "save", Err: err}
	}
	return nil
}

// ReadToken возвращает models.ErrTokenAbsent если токена нет и
// *models.StorageError если чтение не удалось.
func (s *Store) ReadToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &models.StorageError{Op: "read", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.backend.get(KeyAuthToken)
	if err != nil {
		return "", &models.StorageError{Op: "read", Err: err}
	}
	if !ok || token == "" {
		return "", models.ErrTokenAbsent
	}
	return token, nil
}

// Clear удаляет токен, refresh токен и данные пользователя.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &models.StorageError{Op: "clear", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.remove(sessionKeys...); err != nil {
		return &models.StorageError{Op: "clear", Err: err}
	}
	return nil
}
