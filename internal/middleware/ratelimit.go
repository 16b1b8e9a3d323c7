package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"agri-advisor/internal/cache"
	"agri-advisor/internal/services/advisor"
)

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(ctx context.Context, clientIP string) (bool, error)
}

// RateLimit rejects requests with 429 once the client's limit is spent.
// Limiter errors let the request through.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			allowed, err := limiter.Allow(r.Context(), clientIP)
			if err != nil {
				log.Warn().Err(err).Str("client_ip", clientIP).Msg("Rate limiter unavailable")
				allowed = true
			}
			if !allowed {
				log.Warn().
					Str("client_ip", clientIP).
					Str("url", r.URL.String()).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", strconv.Itoa(int(cache.RateLimitWindow.Seconds())))
				writeError(w, http.StatusTooManyRequests, advisor.ErrCodeRateLimit, "Rate limit exceeded. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of RemoteAddr. chi's RealIP middleware
// runs first and has already replaced RemoteAddr with the forwarded address,
// so raw forwarding headers are not read again here.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// MemoryLimiter is a per-client token bucket held in process memory.
// It does not coordinate across instances; use RedisLimiter for that.
// Clients idle for longer than a full refill are dropped, since a fresh
// bucket would be in the same state.
type MemoryLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
	clients   map[string]*clientLimiter
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(requestsPerMinute, burstSize int) *MemoryLimiter {
	limit := rate.Limit(float64(requestsPerMinute) / 60.0)
	return &MemoryLimiter{
		limit:     limit,
		burst:     burstSize,
		idleAfter: time.Duration(float64(burstSize) / float64(limit) * float64(time.Second)),
		clients:   make(map[string]*clientLimiter),
		now:       time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, clientIP string) (bool, error) {
	l.mu.Lock()
	now := l.now()
	l.sweep(now)

	c, ok := l.clients[clientIP]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientIP] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.limiter.Allow(), nil
}

// sweep drops idle clients at most once per idle period. l.mu must be held.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleAfter {
		return
	}
	l.lastSweep = now
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleAfter {
			delete(l.clients, ip)
		}
	}
}

// RedisLimiter counts requests per client in fixed windows shared through
// Redis, so every instance enforces the same budget.
type RedisLimiter struct {
	cache *cache.RedisCache
	limit int64
	now   func() time.Time
}

func NewRedisLimiter(c *cache.RedisCache, requestsPerMinute int) *RedisLimiter {
	return &RedisLimiter{
		cache: c,
		limit: int64(requestsPerMinute),
		now:   time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	window := l.now().Truncate(cache.RateLimitWindow)
	n, err := l.cache.IncrWithTTL(ctx, cache.RateLimitKey(clientIP, window), cache.RateLimitWindow)
	if err != nil {
		return false, err
	}
	return n <= l.limit, nil
}
