// Package session holds the authentication state of the client and the
// three transitions that change it: CheckAuth, Login and Logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"urlshortener/internal/domain/models"

	"github.com/rs/zerolog"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// UserProfile приходит в ответе login и живет только в сессии.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Snapshot - копия состояния для подписчиков и экранов.
type Snapshot struct {
	State State
	User  *UserProfile
	// LastError - последний сбой хранилища при CheckAuth, nil если не было
	LastError error
}

// Authenticated is only meaningful when Loading is false.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}

func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

//go:generate mockgen -source=session.go -destination=../../mocks/mock_token_store.go -package=mocks
type TokenStore interface {
	SaveToken(ctx context.Context, token string) error
	ReadToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Listener func(Snapshot)

type Manager struct {
	store TokenStore
	log   *zerolog.Logger

	mu        sync.RWMutex
	state     State
	user      *UserProfile
	lastError error

	subsMu    sync.Mutex
	nextSubID int
	subs      map[int]Listener
}

func NewManager(store TokenStore, log *zerolog.Logger) (*Manager, error) {
	if store == nil {
		return nil, errors.New("token store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Manager{
		store: store,
		log:   log,
		state: StateLoading,
		subs:  make(map[int]Listener),
	}, nil
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Subscribe регистрирует слушателя переходов. Возвращает функцию отписки.
func (m *Manager) Subscribe(fn Listener) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn

	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.subs, id)
	}
}

// CheckAuth выводит состояние из хранилища. Токен на бэкенде не проверяется.
func (m *Manager) CheckAuth(ctx context.Context) {
	m.transition(StateLoading, nil, nil)

	token, err := m.store.ReadToken(ctx)
	switch {
	case err == nil && token != "":
		m.transition(StateAuthenticated, nil, nil)
	case err == nil, errors.Is(err, models.ErrTokenAbsent):
		m.transition(StateUnauthenticated, nil, nil)
	default:
		m.log.Error().Err(err).Msg("Error checking authentication")
		m.transition(StateUnauthenticated, nil, err)
	}
}

// Login сохраняет токен и переводит сессию в Authenticated вместе с профилем.
// При ошибке сохранения состояние возвращается к тому, что было до вызова.
func (m *Manager) Login(ctx context.Context, token string, user *UserProfile) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", models.ErrInvalidData)
	}

	prev := m.Snapshot()
	m.transition(StateLoading, prev.User, prev.LastError)

	if err := m.store.SaveToken(ctx, token); err != nil {
		m.log.Error().Err(err).Msg("Error during login")
		m.transition(prev.State, prev.User, prev.LastError)
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.transition(StateAuthenticated, copyProfile(user), nil)
	return nil
}

// Logout очищает хранилище и всегда заканчивается в Unauthenticated.
// Ошибка очистки возвращается вызывающему, но состояние не откатывается.
func (m *Manager) Logout(ctx context.Context) error {
	prev := m.Snapshot()
	m.transition(StateLoading, prev.User, prev.LastError)

	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("Error during logout")
	}

	m.transition(StateUnauthenticated, nil, nil)

	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (m *Manager) transition(state State, user *UserProfile, lastErr error) {
	m.mu.Lock()
	m.state = state
	m.user = user
	m.lastError = lastErr
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.log.Debug().Str("state", state.String()).Msg("session transition")
	m.broadcast(snap)
}

func (m *Manager) broadcast(snap Snapshot) {
	m.subsMu.Lock()
	listeners := make([]Listener, 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		State:     m.state,
		User:      copyProfile(m.user),
		LastError: m.lastError,
	}
}

func copyProfile(user *UserProfile) *UserProfile {
	if user == nil {
		return nil
	}
	cp := *user
	return &cp
}
