package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAllowsBurst(t *testing.T) {
	l := New("steam", 5)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(), "request %d within burst should be allowed", i)
	}
	assert.False(t, l.Allow(), "request beyond burst should be denied")
}

func TestWaitHonorsCancelledContext(t *testing.T) {
	l := New("steam", 1)
	require.True(t, l.Allow()) // drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steam")
}

func TestName(t *testing.T) {
	assert.Equal(t, "steam", New("steam", 1).Name())
}
