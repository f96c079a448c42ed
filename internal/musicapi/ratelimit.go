package musicapi

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Provider names an outbound service.
type Provider string

const (
	ProviderSpotify Provider = "spotify"
	ProviderGenAI   Provider = "genai"
)

// Default rate limits per provider (requests per second).
var defaultRateLimits = map[Provider]rate.Limit{
	ProviderSpotify: 5,
	ProviderGenAI:   1,
}

// RateLimiters holds one rate.Limiter per provider, created once at startup.
type RateLimiters struct {
	mu       sync.RWMutex
	limiters map[Provider]*rate.Limiter
}

// NewRateLimiters creates the default provider limiters.
func NewRateLimiters() *RateLimiters {
	m := &RateLimiters{
		limiters: make(map[Provider]*rate.Limiter, len(defaultRateLimits)),
	}
	for name, limit := range defaultRateLimits {
		m.limiters[name] = rate.NewLimiter(limit, 1)
	}
	return m
}

// Set replaces the limit for a provider.
func (m *RateLimiters) Set(name Provider, limit rate.Limit, burst int) {
	m.mu.Lock()
	m.limiters[name] = rate.NewLimiter(limit, burst)
	m.mu.Unlock()
}

// Wait blocks until the provider's limiter allows a request or ctx is done.
// A nil receiver or an unknown provider never blocks.
func (m *RateLimiters) Wait(ctx context.Context, name Provider) error {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
