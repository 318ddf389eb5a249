package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/noah-isme/mirror-api/internal/common"
)

// Config is one rate-limit rule: at most Max requests per Window per key.
type Config struct {
	// Key buckets requests. An empty key exempts the request.
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// ByClientIP keys requests by the caller address, prefixed with scope.
// Forwarding headers count only when the peer is one of proxies.
func ByClientIP(scope string, proxies common.Proxies) func(*http.Request) string {
	return func(r *http.Request) string {
		ip := proxies.ClientIP(r)
		if ip == "" {
			return ""
		}
		return scope + ":" + ip
	}
}

// Handler enforces a Config in front of a route.
type Handler struct {
	Limiter Limiter
	Config  Config
	// OnError observes limiter failures; the request is let through.
	OnError func(error)
	Now     func() time.Time
}

// Middleware rejects requests over the limit with 429 and RATE_LIMITED.
// Admitted and rejected responses both carry the X-RateLimit-* headers.
func (h Handler) Middleware(next http.Handler) http.Handler {
	if h.Limiter == nil || h.Config.Key == nil {
		return next
	}
	now := h.Now
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := h.Config.Key(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		allowed, remaining, reset, err := h.Limiter.Allow(r.Context(), key, h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		hdr := w.Header()
		hdr.Set("X-RateLimit-Limit", strconv.Itoa(max(h.Config.Max, 0)))
		hdr.Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
		hdr.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		if allowed {
			next.ServeHTTP(w, r)
			return
		}
		wait := reset.Sub(now()).Round(time.Second)
		hdr.Set("Retry-After", strconv.Itoa(max(int(wait/time.Second), 1)))
		common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later", nil)
	})
}
