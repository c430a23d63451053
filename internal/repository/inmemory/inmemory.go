package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"urlshortener/internal/domain/models"
)

const initLastID = 0

type keyTxType int

const keyTxValue keyTxType = iota

// InmemoryStorage хранит пользователей и ссылки в памяти процесса.
type InmemoryStorage struct {
	mu sync.RWMutex
	// txMu сериализует WithinTx, отдельные вызовы идут под mu
	txMu sync.Mutex

	users      map[int64]models.User
	lastUserID int64

	links      map[int64]models.ShortenedLink
	codes      map[string]int64
	lastLinkID int64
}

func NewStorage() *InmemoryStorage {
	return &InmemoryStorage{
		users:      make(map[int64]models.User),
		links:      make(map[int64]models.ShortenedLink),
		codes:      make(map[string]int64),
		lastUserID: initLastID,
		lastLinkID: initLastID,
	}
}

// users

func (m *InmemoryStorage) UserCreate(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if user.Username == "" {
		return models.User{}, models.ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return models.User{}, models.ErrConflict
		}
	}

	m.lastUserID++
	user.ID = m.lastUserID
	m.users[user.ID] = user
	return user, nil
}

func (m *InmemoryStorage) UserGetByID(ctx context.Context, id int64) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return models.User{}, models.ErrUnfound
	}
	return user, nil
}

func (m *InmemoryStorage) UserGetByUsername(ctx context.Context, username string) (models.User, error) {
	return m.findUser(ctx, func(u models.User) bool { return u.Username == username })
}

func (m *InmemoryStorage) UserGetByEmail(ctx context.Context, email string) (models.User, error) {
	return m.findUser(ctx, func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *InmemoryStorage) findUser(ctx context.Context, match func(models.User) bool) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, models.ErrUnfound
}

// links

func (m *InmemoryStorage) LinkCreate(ctx context.Context, link models.ShortenedLink) (models.ShortenedLink, error) {
	if err := ctx.Err(); err != nil {
		return models.ShortenedLink{}, err
	}
	if link.ShortCode == "" || link.OriginalURL == "" {
		return models.ShortenedLink{}, models.ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.codes[link.ShortCode]; exists {
		return models.ShortenedLink{}, models.ErrConflict
	}

	m.lastLinkID++
	link.ID = m.lastLinkID
	m.links[link.ID] = link
	m.codes[link.ShortCode] = link.ID
	return link, nil
}

func (m *InmemoryStorage) LinkGetByID(ctx context.Context, id int64) (models.ShortenedLink, error) {
	if err := ctx.Err(); err != nil {
		return models.ShortenedLink{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[id]
	if !ok {
		return models.ShortenedLink{}, models.ErrUnfound
	}
	return link, nil
}

func (m *InmemoryStorage) LinkGetByCode(ctx context.Context, code string) (models.ShortenedLink, error) {
	if err := ctx.Err(); err != nil {
		return models.ShortenedLink{}, err
	}
	if code == "" {
		return models.ShortenedLink{}, models.ErrInvalidData
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codes[code]
	if !ok {
		return models.ShortenedLink{}, models.ErrUnfound
	}
	return m.links[id], nil
}

func (m *InmemoryStorage) LinkListByUser(ctx context.Context, userID int64) ([]models.ShortenedLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.ShortenedLink, 0)
	for _, link := range m.links {
		if link.UserID == userID {
			result = append(result, link)
		}
	}

	// новые первыми
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *InmemoryStorage) LinkUpdate(ctx context.Context, link models.ShortenedLink) (models.ShortenedLink, error) {
	if err := ctx.Err(); err != nil {
		return models.ShortenedLink{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.links[link.ID]
	if !ok {
		return models.ShortenedLink{}, models.ErrUnfound
	}

	// код, владелец, счетчик и дата создания не меняются
	existing.OriginalURL = link.OriginalURL
	existing.IsActive = link.IsActive
	existing.UpdatedAt = link.UpdatedAt
	m.links[existing.ID] = existing
	return existing, nil
}

func (m *InmemoryStorage) LinkDelete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return fmt.Errorf("%w: link %d", models.ErrUnfound, id)
	}
	delete(m.codes, link.ShortCode)
	delete(m.links, id)
	return nil
}

func (m *InmemoryStorage) LinkIncrementClicks(ctx context.Context, id int64) (models.ShortenedLink, error) {
	if err := ctx.Err(); err != nil {
		return models.ShortenedLink{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return models.ShortenedLink{}, models.ErrUnfound
	}
	link.Clicks++
	m.links[id] = link
	return link, nil
}

// WithinTx выполняет fn эксклюзивно относительно других транзакций.
// Вложенный вызов переиспользует внешнюю.
func (m *InmemoryStorage) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(keyTxValue).(bool); ok {
		return fn(ctx)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	return fn(context.WithValue(ctx, keyTxValue, true))
}

func (m *InmemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *InmemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[int64]models.User)
	m.links = make(map[int64]models.ShortenedLink)
	m.codes = make(map[string]int64)
	m.lastUserID = initLastID
	m.lastLinkID = initLastID
	return nil
}
