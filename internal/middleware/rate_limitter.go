package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// Entries idle past maxIdleAge are swept whenever the table outgrows
// maxTrackedIPs.
const (
	maxTrackedIPs = 1000
	maxIdleAge    = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	bucket    map[string]*ipLimiter
	rate      rate.Limit
	burstSize int
	mutex     *sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*ipLimiter),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.Mutex{},
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, exist := r.bucket[ip]
	if !exist {
		if len(r.bucket) >= maxTrackedIPs {
			r.sweepLocked()
		}
		entry = &ipLimiter{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

func (r *rateLimiter) sweepLocked() {
	cutoff := time.Now().Add(-maxIdleAge)
	for ip, entry := range r.bucket {
		if entry.lastSeen.Before(cutoff) {
			delete(r.bucket, ip)
		}
	}
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP)

	if !limiter.Allow() {
		m.log.Warnf("too many requests for IP %s", clientIP)
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many requests",
		})
	}

	return ctx.Next()
}
