package links

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"urlshortener/internal/domain/models"
)

/*
LinkStorage - хранилище коротких ссылок. Все методы скоупа пользователя
проверяются сервисом, хранилище о владельцах не знает.
*/

//go:generate mockgen -source=links.go -destination=../../mocks/mock_link_storage.go -package=mocks
type LinkStorage interface {
	LinkCreate(ctx context.Context, link models.ShortenedLink) (models.ShortenedLink, error) // ErrConflict при занятом коде
	LinkGetByID(ctx context.Context, id int64) (models.ShortenedLink, error)
	LinkGetByCode(ctx context.Context, code string) (models.ShortenedLink, error)
	LinkListByUser(ctx context.Context, userID int64) ([]models.ShortenedLink, error) // новые первыми
	LinkUpdate(ctx context.Context, link models.ShortenedLink) (models.ShortenedLink, error)
	LinkDelete(ctx context.Context, id int64) error
	LinkIncrementClicks(ctx context.Context, id int64) (models.ShortenedLink, error)
	Ping(ctx context.Context) error

	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	MsgURLInvalid  = "Enter a valid URL."
	MsgURLRequired = "This field may not be blank."
	fieldURL       = "original_url"
)

// LinkShortener реализует бизнес-логику ссылок пользователя
type LinkShortener struct {
	storage LinkStorage
	baseURL string
}

func NewLinkShortener(storage LinkStorage, baseURL string) (*LinkShortener, error) {
	if storage == nil {
		return nil, errors.New("link storage cannot be nil")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("base url cannot be empty")
	}
	return &LinkShortener{
		storage: storage,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// ShortURL возвращает абсолютный короткий адрес (<base>/api/links/<code>/).
func (s *LinkShortener) ShortURL(code string) string {
	return fmt.Sprintf("%s/api/links/%s/", s.baseURL, code)
}

// UpdateURL - адрес эндпоинта обновления ссылки.
func (s *LinkShortener) UpdateURL(id int64) string {
	return fmt.Sprintf("%s/api/links/urls/%d/update/", s.baseURL, id)
}

// Create создает активную ссылку со свежим кодом.
func (s *LinkShortener) Create(ctx context.Context, userID int64, originalURL string) (models.ShortenedLink, error) {
	if userID <= 0 {
		return models.ShortenedLink{}, fmt.Errorf("%w: invalid user ID: %d", models.ErrInvalidData, userID)
	}
	if err := validateOriginalURL(originalURL); err != nil {
		return models.ShortenedLink{}, err
	}

	for i := 0; i < maxAttempts; i++ {
		code, err := s.generateUniqueToken(ctx)
		if err != nil {
			return models.ShortenedLink{}, fmt.Errorf("failed to generate token: %w", err)
		}

		now := time.Now().UTC()
		created, err := s.storage.LinkCreate(ctx, models.ShortenedLink{
			OriginalURL: originalURL,
			ShortCode:   code,
			UserID:      userID,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if errors.Is(err, models.ErrConflict) {
			// код заняли между проверкой и вставкой
			continue
		}
		if err != nil {
			return models.ShortenedLink{}, fmt.Errorf("failed to create link: %w", err)
		}
		return created, nil
	}

	return models.ShortenedLink{}, errors.New("failed to store link after several attempts")
}

func (s *LinkShortener) List(ctx context.Context, userID int64) ([]models.ShortenedLink, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID: %d", models.ErrInvalidData, userID)
	}

	userLinks, err := s.storage.LinkListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user links: %w", err)
	}
	return userLinks, nil
}

// Get возвращает ссылку владельца. Чужая ссылка неотличима от отсутствующей.
func (s *LinkShortener) Get(ctx context.Context, userID, id int64) (models.ShortenedLink, error) {
	link, err := s.storage.LinkGetByID(ctx, id)
	if err != nil {
		return models.ShortenedLink{}, wrapLookup(err)
	}
	if link.UserID != userID {
		return models.ShortenedLink{}, fmt.Errorf("%w: %v", models.ErrUnfound, models.ErrNotOwner)
	}
	return link, nil
}

// Update применяет частичное обновление в одной транзакции чтение-проверка-запись.
func (s *LinkShortener) Update(ctx context.Context, userID, id int64, patch models.LinkPatch) (models.ShortenedLink, error) {
	if patch.OriginalURL != nil {
		if err := validateOriginalURL(*patch.OriginalURL); err != nil {
			return models.ShortenedLink{}, err
		}
	}

	var updated models.ShortenedLink
	err := s.storage.WithinTx(ctx, func(ctx context.Context) error {
		link, err := s.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		if patch.OriginalURL != nil {
			link.OriginalURL = *patch.OriginalURL
		}
		if patch.IsActive != nil {
			link.IsActive = *patch.IsActive
		}
		link.UpdatedAt = time.Now().UTC()

		updated, err = s.storage.LinkUpdate(ctx, link)
		if err != nil {
			return fmt.Errorf("failed to update link: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.ShortenedLink{}, err
	}
	return updated, nil
}

func (s *LinkShortener) Delete(ctx context.Context, userID, id int64) error {
	return s.storage.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, userID, id); err != nil {
			return err
		}
		if err := s.storage.LinkDelete(ctx, id); err != nil {
			return wrapLookup(err)
		}
		return nil
	})
}

// Resolve возвращает ссылку для редиректа и засчитывает переход.
// Неактивная ссылка - models.ErrInactive.
func (s *LinkShortener) Resolve(ctx context.Context, code string) (models.ShortenedLink, error) {
	if code == "" {
		return models.ShortenedLink{}, models.ErrInvalidData
	}

	var resolved models.ShortenedLink
	err := s.storage.WithinTx(ctx, func(ctx context.Context) error {
		link, err := s.storage.LinkGetByCode(ctx, code)
		if err != nil {
			return wrapLookup(err)
		}
		if !link.IsActive {
			return models.ErrInactive
		}

		resolved, err = s.storage.LinkIncrementClicks(ctx, link.ID)
		if err != nil {
			return fmt.Errorf("failed to count click: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.ShortenedLink{}, err
	}
	return resolved, nil
}

// PingDataBase проверяет соединение с хранилищем
func (s *LinkShortener) PingDataBase(ctx context.Context) error {
	if err := s.storage.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func wrapLookup(err error) error {
	if errors.Is(err, models.ErrUnfound) {
		return fmt.Errorf("%w: link not found", models.ErrUnfound)
	}
	return fmt.Errorf("failed to get link: %w", err)
}

// validateOriginalURL - правила URLField: http(s)/ftp(s) и хост.
func validateOriginalURL(raw string) error {
	v := models.NewValidationError()

	if strings.TrimSpace(raw) == "" {
		v.Add(fieldURL, MsgURLRequired)
		return v
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || strings.ContainsAny(raw, " \t\r\n") {
		v.Add(fieldURL, MsgURLInvalid)
		return v
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp", "ftps":
	default:
		v.Add(fieldURL, MsgURLInvalid)
	}
	return v.OrNil()
}

const (
	maxAttempts  = 10
	tokenLength  = 5
	tokenLetters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

func (s *LinkShortener) generateUniqueToken(ctx context.Context) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		token, err := generateRandomToken()
		if err != nil {
			return "", err
		}

		_, err = s.storage.LinkGetByCode(ctx, token)
		if errors.Is(err, models.ErrUnfound) {
			return token, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", errors.New("failed to generate unique token after several attempts")
}

func generateRandomToken() (string, error) {
	b := make([]byte, tokenLength)
	letterCount := big.NewInt(int64(len(tokenLetters)))

	for i := range b {
		n, err := rand.Int(rand.Reader, letterCount)
		if err != nil {
			return "", err
		}
		b[i] = tokenLetters[n.Int64()]
	}
	return string(b), nil
}
