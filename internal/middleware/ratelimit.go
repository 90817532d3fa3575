// Package middleware holds the HTTP middleware chain of the API server.
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/insightsphere/internal/metrics"
)

// RateLimitMiddleware limits requests per client IP over a sliding window.
type RateLimitMiddleware struct {
	requests   map[string][]int64 // IP -> timestamps
	mu         sync.Mutex
	now        func() time.Time
	trustProxy bool
}

// NewRateLimitMiddleware creates a new rate limiting middleware. Clients are
// keyed by the connection's peer address unless trustProxyHeaders is set, in
// which case X-Forwarded-For and X-Real-IP take precedence.
func NewRateLimitMiddleware(trustProxyHeaders bool) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		requests:   make(map[string][]int64),
		now:        time.Now,
		trustProxy: trustProxyHeaders,
	}
}

// RateLimit allows maxRequests per client IP in any windowSeconds long window.
func (m *RateLimitMiddleware) RateLimit(maxRequests int, windowSeconds int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r, m.trustProxy)
			if !m.allow(clientIP, maxRequests, windowSeconds) {
				metrics.RateLimitRejections.Inc()
				log.WithFields(log.Fields{
					"client_ip": clientIP,
					"path":      r.URL.Path,
				}).Warn("Rate limit exceeded")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allow records a request from clientIP unless the window is already full.
func (m *RateLimitMiddleware) allow(clientIP string, maxRequests, windowSeconds int) bool {
	now := m.now().Unix()
	windowStart := now - int64(windowSeconds)

	m.mu.Lock()
	defer m.mu.Unlock()

	timestamps := m.requests[clientIP]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts > windowStart {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= maxRequests {
		m.requests[clientIP] = valid
		return false
	}
	m.requests[clientIP] = append(valid, now)
	return true
}

// Prune drops clients with no request inside the window.
func (m *RateLimitMiddleware) Prune(windowSeconds int) {
	windowStart := m.now().Unix() - int64(windowSeconds)

	m.mu.Lock()
	defer m.mu.Unlock()
	for ip, timestamps := range m.requests {
		if len(timestamps) == 0 || timestamps[len(timestamps)-1] <= windowStart {
			delete(m.requests, ip)
		}
	}
}

// clients returns the number of tracked client IPs.
func (m *RateLimitMiddleware) clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// getClientIP extracts the client IP from the request. Forwarded headers are
// client controlled and only honoured when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
			return strings.TrimSpace(strings.Split(ip, ",")[0])
		}
		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			return strings.TrimSpace(ip)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
