package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientRateLimiter_SweepsIdleBucketsOncePerInterval(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	l := NewClientRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = start.Add(9 * time.Minute)
	l.Allow("x")
	now = start.Add(10 * time.Minute)
	l.Allow("y")
	require.Equal(t, 3, l.Len())

	// a and x are idle but the next sweep is not due
	now = start.Add(19*time.Minute + 30*time.Second)
	l.Allow("z")
	require.Equal(t, 4, l.Len())

	now = start.Add(20 * time.Minute)
	l.Allow("w")
	require.Equal(t, 3, l.Len())
	for _, evicted := range []string{"a", "x"} {
		_, ok := l.limiters[evicted]
		require.False(t, ok, evicted)
	}
}
