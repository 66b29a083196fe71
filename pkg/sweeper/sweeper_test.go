package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweeperRunsImmediatelyAndOnTicker(t *testing.T) {
	var passes atomic.Int32
	s := New(func(ctx context.Context, now time.Time) int {
		passes.Add(1)
		return 0
	}, Config{Interval: 10 * time.Millisecond})

	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool { return passes.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSweeperStopWaitsForLoop(t *testing.T) {
	var passes atomic.Int32
	s := New(func(ctx context.Context, now time.Time) int {
		passes.Add(1)
		return 1
	}, Config{Interval: time.Hour})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return passes.Load() == 1 }, time.Second, time.Millisecond)

	s.Stop()
	settled := passes.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, passes.Load())

	// Stop after stop is a no-op.
	s.Stop()
}

func TestSweeperStartIsIdempotent(t *testing.T) {
	var passes atomic.Int32
	s := New(func(ctx context.Context, now time.Time) int {
		passes.Add(1)
		return 0
	}, Config{Interval: time.Hour})

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx)
	defer s.Stop()

	assert.Eventually(t, func() bool { return passes.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), passes.Load())
}
