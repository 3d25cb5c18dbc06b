// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/olegiv/folio-go/internal/handler/api"
)

const (
	limiterCacheSize = 10000
	limiterIdleTTL   = 30 * time.Minute
)

// limiterCache hands out one token bucket per key. Idle keys expire and the
// cache is bounded, so a flood of distinct clients cannot grow it without limit.
type limiterCache[K comparable] struct {
	mu       sync.Mutex
	limiters *expirable.LRU[K, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: expirable.NewLRU[K, *rate.Limiter](limiterCacheSize, nil, limiterIdleTTL),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, ok := lc.limiters.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters.Add(key, limiter)
	return limiter
}

// RateLimit limits requests per client IP. Apply after chi's RealIP.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	cache := newLimiterCache[string](rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !cache.get(ip).Allow() {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				api.WriteTooManyRequests(w, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the request's remote IP without the port. chi's RealIP
// has already replaced RemoteAddr with the proxy-reported address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
