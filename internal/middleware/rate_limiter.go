package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipEntry tracks requests per IP within a fixed window.
type ipEntry struct {
	count     int
	windowEnd time.Time
}

// Limiter is a per-IP fixed-window counter. Each route group gets its own
// instance so login, chat and the general API do not share budgets.
type Limiter struct {
	name   string
	limit  int
	window time.Duration
	msg    string

	mu      sync.Mutex
	entries map[string]*ipEntry
}

func NewLimiter(name string, limit int, window time.Duration, msg string) *Limiter {
	return &Limiter{
		name:    name,
		limit:   limit,
		window:  window,
		msg:     msg,
		entries: make(map[string]*ipEntry),
	}
}

// Allow counts one request from ip and reports whether it is within budget,
// plus the end of the current window.
func (l *Limiter) Allow(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &ipEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = entry
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.Allow(c.ClientIP(), time.Now())
		if !ok {
			secs := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

// Purge drops expired entries and returns how many were removed.
func (l *Limiter) Purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	purged := 0
	for ip, entry := range l.entries {
		if now.After(entry.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	return purged
}

// RunPurge removes expired entries every interval until ctx is done.
func (l *Limiter) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := l.Purge(now); n > 0 {
				log.Debug().Str("limiter", l.name).Int("purged", n).Msg("rate limiter entries purged")
			}
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() *Limiter {
	return NewLimiter("login", 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// ChatRateLimiter limits chat messages to 15 per minute per IP.
func ChatRateLimiter() *Limiter {
	return NewLimiter("chat", 15, time.Minute, "Demasiados mensajes. Esperá un momento antes de seguir.")
}

// APIRateLimiter is the general limiter for the whole API.
func APIRateLimiter(limit int, window time.Duration) *Limiter {
	return NewLimiter("api", limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}
