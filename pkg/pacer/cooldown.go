package pacer

import (
	"context"
	"time"
)

// Cooldown inserts a longer pause after every N successes across a run.
type Cooldown struct {
	every int
	pause time.Duration
	count int
	sleep SleepFunc
}

// NewCooldown pauses for pause after every every-th call to Done. every <= 0 disables it.
func NewCooldown(every int, pause time.Duration, sleep SleepFunc) *Cooldown {
	if sleep == nil {
		sleep = Sleep
	}
	return &Cooldown{every: every, pause: pause, sleep: sleep}
}

// Done records one success and pauses when the count hits a multiple of every.
// It reports whether a pause happened.
func (c *Cooldown) Done(ctx context.Context) (bool, error) {
	c.count++
	if c.every <= 0 || c.count%c.every != 0 {
		return false, nil
	}
	return true, c.sleep(ctx, c.pause)
}

// Count is the number of successes recorded so far.
func (c *Cooldown) Count() int {
	return c.count
}
