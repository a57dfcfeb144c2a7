package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	idleClientTTL     = 10 * time.Minute
)

// rateLimiter keeps one token bucket per client IP. Idle buckets expire so
// the table stays bounded.
type rateLimiter struct {
	mu        sync.Mutex
	bucket    *expirable.LRU[string, *rate.Limiter]
	rate      rate.Limit
	burstSize int
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, idleClientTTL),
		rate:      reqRate,
		burstSize: burstSize,
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, ok := r.bucket.Get(ip); ok {
		return limiter
	}

	limiter := rate.NewLimiter(r.rate, r.burstSize)
	r.bucket.Add(ip, limiter)
	return limiter
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP)

	if !limiter.Allow() {
		m.log.WithField("client_ip", clientIP).Warn("[middleware] too many requests")
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many requests",
		})
	}

	return ctx.Next()
}
