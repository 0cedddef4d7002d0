package ratelimit

import (
	"sync"
	"time"
)

// UploadLimiter spaces out expensive extraction requests per client. OCR
// and rasterization are CPU-heavy, so each client gets a minimum interval
// between uploads, with a growing penalty window after repeated failures.
type UploadLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	maxBackoff  time.Duration
	clients     map[string]*clientState
}

type clientState struct {
	lastRequest  time.Time
	backoffUntil time.Time
	requestCount int64
	errorCount   int64
}

// NewUploadLimiter creates a limiter enforcing minInterval between
// requests from the same client key.
func NewUploadLimiter(minInterval time.Duration) *UploadLimiter {
	return &UploadLimiter{
		minInterval: minInterval,
		maxBackoff:  time.Minute,
		clients:     make(map[string]*clientState),
	}
}

// Allow reports whether the client may start an upload now, and when to
// retry if not. Allowed requests update the client's clock immediately.
func (l *UploadLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	state, exists := l.clients[key]
	if !exists {
		state = &clientState{}
		l.clients[key] = state
	}

	if now.Before(state.backoffUntil) {
		return false, state.backoffUntil.Sub(now)
	}
	if since := now.Sub(state.lastRequest); since < l.minInterval {
		return false, l.minInterval - since
	}

	state.lastRequest = now
	state.requestCount++
	return true, 0
}

// RecordError counts a failed extraction; clients failing repeatedly get
// a penalty window before their next attempt.
func (l *UploadLimiter) RecordError(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, exists := l.clients[key]
	if !exists {
		return
	}
	state.errorCount++
	if state.errorCount > 3 {
		backoff := time.Duration(state.errorCount) * 5 * time.Second
		if backoff > l.maxBackoff {
			backoff = l.maxBackoff
		}
		state.backoffUntil = time.Now().Add(backoff)
	}
}

// RecordSuccess resets a client's failure streak.
func (l *UploadLimiter) RecordSuccess(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if state, exists := l.clients[key]; exists {
		state.errorCount = 0
	}
}

// Stats returns per-client counters.
func (l *UploadLimiter) Stats() map[string]ClientStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := make(map[string]ClientStats, len(l.clients))
	now := time.Now()
	for key, state := range l.clients {
		stats[key] = ClientStats{
			RequestCount: state.requestCount,
			ErrorCount:   state.errorCount,
			InBackoff:    now.Before(state.backoffUntil),
		}
	}
	return stats
}

// ClientStats contains counters for a single client key.
type ClientStats struct {
	RequestCount int64
	ErrorCount   int64
	InBackoff    bool
}
