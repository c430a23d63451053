package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"urlshortener/internal/http/httputils"

	"golang.org/x/time/rate"
)

const (
	gcThreshold = 1000
	idleTTL     = 10 * time.Minute
)

// Limiter - токен бакет на каждый IP. rpm <= 0 выключает ограничение.
type Limiter struct {
	rpm     int
	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLimiter(rpm int) *Limiter {
	return &Limiter{
		rpm:     rpm,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Middleware отвечает 429 {"detail": "Request was throttled."} сверх лимита.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l.rpm <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Minute/time.Second)/l.rpm+1))
			httputils.WriteDetail(w, http.StatusTooManyRequests, httputils.DetailThrottled)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[ip]
	if !ok {
		c = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.rpm)), l.rpm),
		}
		l.clients[ip] = c
	}
	c.lastSeen = now
	l.gcLocked(now)

	return c.limiter.AllowN(now, 1)
}

func (l *Limiter) gcLocked(now time.Time) {
	if len(l.clients) < gcThreshold {
		return
	}

	cutoff := now.Add(-idleTTL)
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// clientIP берет адрес только из соединения: X-Forwarded-For и X-Real-IP
// задает сам клиент.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
