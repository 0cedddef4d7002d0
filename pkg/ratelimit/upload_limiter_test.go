package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowEnforcesInterval(t *testing.T) {
	l := NewUploadLimiter(100 * time.Millisecond)

	ok, _ := l.Allow("client-a")
	assert.True(t, ok, "first request must pass")

	ok, retry := l.Allow("client-a")
	assert.False(t, ok, "immediate second request must be throttled")
	assert.Positive(t, retry)
}

func TestAllowIsPerClient(t *testing.T) {
	l := NewUploadLimiter(time.Second)

	ok, _ := l.Allow("client-a")
	require.True(t, ok)
	ok, _ = l.Allow("client-b")
	assert.True(t, ok, "different clients do not share an interval")
}

func TestAllowAfterIntervalElapses(t *testing.T) {
	l := NewUploadLimiter(10 * time.Millisecond)

	ok, _ := l.Allow("client-a")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	ok, _ = l.Allow("client-a")
	assert.True(t, ok)
}

func TestRepeatedErrorsTriggerBackoff(t *testing.T) {
	l := NewUploadLimiter(0)

	ok, _ := l.Allow("client-a")
	require.True(t, ok)

	for range 4 {
		l.RecordError("client-a")
	}

	ok, retry := l.Allow("client-a")
	assert.False(t, ok, "failure streak must open a penalty window")
	assert.Positive(t, retry)
}

func TestSuccessResetsFailureStreak(t *testing.T) {
	l := NewUploadLimiter(0)

	ok, _ := l.Allow("client-a")
	require.True(t, ok)
	for range 3 {
		l.RecordError("client-a")
	}
	l.RecordSuccess("client-a")
	l.RecordError("client-a")

	// one error after a success is below the backoff threshold
	ok, _ = l.Allow("client-a")
	assert.True(t, ok)

	stats := l.Stats()
	assert.Equal(t, int64(1), stats["client-a"].ErrorCount)
	assert.False(t, stats["client-a"].InBackoff)
}

func TestRecordErrorUnknownClientIsNoop(t *testing.T) {
	l := NewUploadLimiter(0)
	l.RecordError("never-seen")
	assert.Empty(t, l.Stats())
}
