package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_Unlimited(t *testing.T) {
	b := NewBudget(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, b.Use())
	}
	assert.Equal(t, 100, b.GetStats()["used"])
}

func TestBudget_Limit(t *testing.T) {
	b := NewBudget(2)

	require.NoError(t, b.Use())
	require.NoError(t, b.Use())
	assert.ErrorIs(t, b.Use(), ErrBudgetExhausted)
	assert.Equal(t, 2, b.GetStats()["used"])
}

func TestPacer_ZeroIntervalNeverBlocks(t *testing.T) {
	p := NewPacer(0)
	start := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestPacer_SpacesCalls(t *testing.T) {
	p := NewPacer(40 * time.Millisecond)
	start := time.Now()

	require.NoError(t, p.Wait(context.Background()))
	assert.Less(t, time.Since(start), 20*time.Millisecond, "first wait is immediate")

	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestPacer_ContextCancelled(t *testing.T) {
	p := NewPacer(time.Hour)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Wait(ctx))
}

func TestPacer_WaitIgnoresTimeSpentBetweenCalls(t *testing.T) {
	p := NewPacer(40 * time.Millisecond)
	require.NoError(t, p.Wait(context.Background()))

	time.Sleep(60 * time.Millisecond)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestPacer_FirstWaitHonoursCancelledContext(t *testing.T) {
	p := NewPacer(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
}
