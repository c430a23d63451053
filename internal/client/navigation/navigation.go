// Package navigation decides which screen group is reachable for a session
// snapshot: splash while loading, auth screens when signed out, tabs when
// signed in.
package navigation

import (
	"errors"
	"fmt"
	"sync"

	"urlshortener/internal/client/session"
)

var (
	ErrSessionLoading  = errors.New("session is still loading")
	ErrSignInRequired  = errors.New("please log in first")
	ErrAlreadySignedIn = errors.New("already logged in, log out first")
)

type Route int

const (
	RouteSplash Route = iota
	RouteAuth
	RouteTabs
)

func (r Route) String() string {
	switch r {
	case RouteSplash:
		return "splash"
	case RouteAuth:
		return "auth"
	case RouteTabs:
		return "tabs"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// Resolve - Loading важнее Authenticated.
func Resolve(snap session.Snapshot) Route {
	switch {
	case snap.Loading():
		return RouteSplash
	case snap.Authenticated():
		return RouteTabs
	default:
		return RouteAuth
	}
}

// Gate запоминает текущий маршрут и обновляется на каждом переходе сессии.
type Gate struct {
	mu          sync.RWMutex
	current     Route
	unsubscribe func()
}

type SnapshotSource interface {
	Snapshot() session.Snapshot
	Subscribe(fn session.Listener) func()
}

func NewGate(src SnapshotSource) *Gate {
	g := &Gate{current: Resolve(src.Snapshot())}
	g.unsubscribe = src.Subscribe(func(snap session.Snapshot) {
		g.mu.Lock()
		g.current = Resolve(snap)
		g.mu.Unlock()
	})
	return g
}

func (g *Gate) Current() Route {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// Allow возвращает ошибку, если экран группы want сейчас недоступен.
func (g *Gate) Allow(want Route) error {
	current := g.Current()
	if current == want {
		return nil
	}
	switch current {
	case RouteSplash:
		return ErrSessionLoading
	case RouteTabs:
		return ErrAlreadySignedIn
	default:
		return ErrSignInRequired
	}
}

func (g *Gate) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}
