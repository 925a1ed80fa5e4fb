// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/breathnew/backend/internal/config"
)

type RateLimitConfig struct {
	Requests   int
	Window     time.Duration
	Burst      int
	KeyFunc    func(*http.Request) string
	BypassFunc func(*http.Request) bool
}

type RateLimiter struct {
	limiters sync.Map
	config   RateLimitConfig
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		config: RateLimitConfig{
			Requests: cfg.Requests,
			Window:   cfg.Window,
			Burst:    cfg.Burst,
			KeyFunc:  KeyByIP,
		},
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		entry := rl.entry(key)

		remaining := int(entry.limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		setRateLimitHeaders(w, rl.config, remaining)

		if !entry.limiter.Allow() {
			writeRateLimitExceeded(w, rl.config)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess int64
}

const (
	cleanupInterval = 5 * time.Minute
	entryTTL        = 10 * time.Minute
)

func (rl *RateLimiter) entry(key string) *limiterEntry {
	now := time.Now().Unix()

	entryI, loaded := rl.limiters.Load(key)
	if !loaded {
		perSec := float64(rl.config.Requests) / rl.config.Window.Seconds()
		newEntry := &limiterEntry{
			limiter:    rate.NewLimiter(rate.Limit(perSec), rl.config.Burst),
			lastAccess: now,
		}
		entryI, _ = rl.limiters.LoadOrStore(key, newEntry)
	}

	entry := entryI.(*limiterEntry)
	entry.lastAccess = now
	return entry
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-entryTTL).Unix()
		rl.limiters.Range(func(key, value any) bool {
			entry, ok := value.(*limiterEntry)
			if ok && entry.lastAccess < cutoff {
				rl.limiters.Delete(key)
			}
			return true
		})
	}
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		ip := strings.TrimSpace(ips[len(ips)-1])
		return "ratelimit:ip:" + ip
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ratelimit:ip:" + ip
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	cfg RateLimitConfig,
	remaining int,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

	windowSecs := int(cfg.Window.Seconds())
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d`, cfg.Requests, windowSecs))
	h.Set("RateLimit", fmt.Sprintf(`%d;t=%d`, remaining, windowSecs))
}

func writeRateLimitExceeded(w http.ResponseWriter, cfg RateLimitConfig) {
	retryAfter := int(
		cfg.Window.Seconds() / float64(max(cfg.Requests, 1)),
	)
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	response := map[string]any{
		"error": map[string]any{
			"code": "RATE_LIMITED",
			"message": fmt.Sprintf(
				"Rate limit exceeded. Retry after %d seconds.",
				retryAfter,
			),
		},
	}

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(response)
}
