package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenPacerEnforcesDelay(t *testing.T) {
	pacer := NewTokenPacer(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, pacer.Wait(ctx))
	first := time.Since(start)

	require.NoError(t, pacer.Wait(ctx))
	second := time.Since(start)

	// The first check goes through immediately, the second waits out the
	// minimum delay.
	assert.Less(t, first, 25*time.Millisecond)
	assert.GreaterOrEqual(t, second, 40*time.Millisecond)
}

func TestTokenPacerZeroDelayNeverBlocks(t *testing.T) {
	pacer := NewTokenPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, pacer.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestTokenPacerHonorsContextCancellation(t *testing.T) {
	pacer := NewTokenPacer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, pacer.Wait(ctx)) // consumes the burst token
	cancel()
	assert.Error(t, pacer.Wait(ctx))
}

func TestNopPacer(t *testing.T) {
	assert.NoError(t, NopPacer{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NopPacer{}.Wait(ctx))
}
