package pacer

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func TestWaitStaysWithinBaseAndJitter(t *testing.T) {
	rec := &sleepRecorder{}
	p := New(Options{
		Base:   600 * time.Millisecond,
		Jitter: 300 * time.Millisecond,
		Sleep:  rec.sleep,
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})

	for i := 0; i < 50; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	require.Len(t, rec.calls, 50)
	for _, d := range rec.calls {
		assert.GreaterOrEqual(t, d, 600*time.Millisecond)
		assert.LessOrEqual(t, d, 900*time.Millisecond)
	}
}

func TestWaitForUsesItsOwnBase(t *testing.T) {
	rec := &sleepRecorder{}
	p := New(Options{Base: time.Second, Sleep: rec.sleep, Rand: rand.New(rand.NewPCG(3, 4))})

	for i := 0; i < 20; i++ {
		require.NoError(t, p.WaitFor(context.Background(), 200*time.Millisecond, 300*time.Millisecond))
	}
	require.Len(t, rec.calls, 20)
	for _, d := range rec.calls {
		assert.GreaterOrEqual(t, d, 200*time.Millisecond)
		assert.LessOrEqual(t, d, 500*time.Millisecond)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestCooldownEveryN(t *testing.T) {
	rec := &sleepRecorder{}
	c := NewCooldown(3, 10*time.Second, rec.sleep)

	paused := 0
	for i := 0; i < 7; i++ {
		did, err := c.Done(context.Background())
		require.NoError(t, err)
		if did {
			paused++
		}
	}
	assert.Equal(t, 2, paused)
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second}, rec.calls)
	assert.Equal(t, 7, c.Count())
}

func TestCooldownDisabled(t *testing.T) {
	rec := &sleepRecorder{}
	c := NewCooldown(0, time.Second, rec.sleep)
	for i := 0; i < 100; i++ {
		_, err := c.Done(context.Background())
		require.NoError(t, err)
	}
	assert.Empty(t, rec.calls)
}
