package models

import (
	"errors"
	"time"
)

type (
	User struct {
		ID           int64 // Уникальный идентификатор
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	ShortenedLink struct {
		ID          int64  // Уникальный идентификатор
		OriginalURL string // Оригинальный URL в изначальном виде
		ShortCode   string // Короткий код (aBcD1)
		UserID      int64  // владелец ссылки
		Clicks      int64
		IsActive    bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// LinkPatch - частичное обновление, nil поля не трогаем
	LinkPatch struct {
		OriginalURL *string
		IsActive    *bool
	}

	TokenPair struct {
		Access  string
		Refresh string
	}
)

var (
	ErrInvalidData  = errors.New("invalid input data")
	ErrUnfound      = errors.New("not found")
	ErrEmpty        = errors.New("storage is empty")
	ErrConflict     = errors.New("already exists")
	ErrNotOwner     = errors.New("user is not owner of url")
	ErrInactive     = errors.New("url is not active")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrInvalidToken = errors.New("token is invalid or expired")
)
