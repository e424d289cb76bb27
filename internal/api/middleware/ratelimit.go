package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/terrenos/internal/metrics"
)

// clientIdleTTL is how long an idle client's bucket is kept.
const clientIdleTTL = 10 * time.Minute

// RateLimiter holds one token bucket per client IP.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	nowFunc   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a per-client rate limiter refilling perSecond
// tokens up to burst.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		nowFunc:   time.Now,
		clients:   make(map[string]*clientBucket),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSweep = r.nowFunc()
	return r
}

// Allow reports whether the client may proceed now. When it may not, delay
// is how long until its next token.
func (r *RateLimiter) Allow(client string) (ok bool, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	r.sweep(now)

	b, found := r.clients[client]
	if !found {
		b = &clientBucket{limiter: rate.NewLimiter(r.perSecond, r.burst)}
		r.clients[client] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Clients returns the number of tracked clients.
func (r *RateLimiter) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *RateLimiter) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < clientIdleTTL {
		return
	}
	for ip, b := range r.clients {
		if now.Sub(b.lastSeen) > clientIdleTTL {
			delete(r.clients, ip)
		}
	}
	r.lastSweep = now
}

// RateLimit returns Echo middleware that rejects clients over their budget
// with 429 and a Retry-After header. Probe and scrape paths are exempt.
func RateLimit(r *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, skip := metricsSkipPaths[c.Request().URL.Path]; skip {
				return next(c)
			}

			ok, delay := r.Allow(c.RealIP())
			if ok {
				return next(c)
			}

			metrics.HTTPRateLimitedTotal.Inc()
			retry := int(math.Ceil(delay.Seconds()))
			c.Response().Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
			})
		}
	}
}
