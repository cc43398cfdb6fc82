// Package pacer spaces out requests to the stats service.
//
// Every request waits a fixed base plus a random jitter, and a token bucket
// caps the absolute rate so a misconfigured delay cannot flood the service.
package pacer

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Pacer.
type Options struct {
	// Base is waited before every request.
	Base time.Duration
	// Jitter is the upper bound of the random extra delay.
	Jitter time.Duration
	// MaxRPS caps requests per second. Zero or negative disables the cap.
	MaxRPS float64
	// Sleep replaces the real sleep, mostly for tests.
	Sleep SleepFunc
	// Rand replaces the jitter source, mostly for tests.
	Rand *rand.Rand
}

// Pacer delays callers before they hit the network.
type Pacer struct {
	base    time.Duration
	jitter  time.Duration
	limiter *rate.Limiter
	sleep   SleepFunc
	rnd     *rand.Rand
}

// New creates a Pacer.
func New(opts Options) *Pacer {
	limit := rate.Inf
	if opts.MaxRPS > 0 {
		limit = rate.Limit(opts.MaxRPS)
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	return &Pacer{
		base:    opts.Base,
		jitter:  opts.Jitter,
		limiter: rate.NewLimiter(limit, 1),
		sleep:   sleep,
		rnd:     rnd,
	}
}

// Wait blocks for base + U(0, jitter) and then for a limiter token.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.WaitFor(ctx, p.base, p.jitter)
}

// WaitFor is Wait with its own base and jitter, for endpoints paced apart
// from the default. The limiter is shared.
func (p *Pacer) WaitFor(ctx context.Context, base, jitter time.Duration) error {
	if err := p.sleep(ctx, base+p.draw(jitter)); err != nil {
		return err
	}
	return p.limiter.Wait(ctx)
}

func (p *Pacer) draw(upper time.Duration) time.Duration {
	if upper <= 0 {
		return 0
	}
	return time.Duration(p.rnd.Int64N(int64(upper) + 1))
}

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
