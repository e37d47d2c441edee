// Package ratelimit throttles fetches per host so a scrape run with many
// reply pages cannot hammer the source site.
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter gates requests by target URL.
type RateLimiter interface {
	// Wait blocks until a request for the given URL may proceed, or until
	// the context is cancelled.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request could proceed right now.
	Allow(urlStr string) bool
}

// DomainLimiter applies a token bucket per host.
type DomainLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter with the given per-host rate.
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if burst <= 0 {
		burst = 4
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	host := extractHost(urlStr)
	if host == "" {
		// invalid URL, let it proceed and fail elsewhere
		return nil
	}
	return dl.limiter(host).Wait(ctx)
}

func (dl *DomainLimiter) Allow(urlStr string) bool {
	host := extractHost(urlStr)
	if host == "" {
		return true
	}
	return dl.limiter(host).Allow()
}

func (dl *DomainLimiter) limiter(host string) *rate.Limiter {
	dl.mu.RLock()
	lim, ok := dl.limiters[host]
	dl.mu.RUnlock()
	if ok {
		return lim
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()
	if lim, ok := dl.limiters[host]; ok {
		return lim
	}
	lim = rate.NewLimiter(dl.perHost, dl.burst)
	dl.limiters[host] = lim
	return lim
}

func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
