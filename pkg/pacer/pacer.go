// Package pacer spaces out successive calls against a rate-limited API. A
// Pacer guards the earliest time the next call may start, one interval after
// the previous call ended; callers block until that time has passed.
package pacer

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Clock is the time source used by a Pacer. Tests replace it to observe the
// delays without sleeping.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Pacer enforces a minimum interval between the end of one call and the start
// of the next. The first call is never delayed. A Pacer is meant to be owned by a single
// logical operation; create a new one per operation.
type Pacer struct {
	limiter  *rate.Limiter
	clock    Clock
	interval time.Duration
}

// Option configures a Pacer.
type Option func(*Pacer)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(p *Pacer) { p.clock = c }
}

// New returns a Pacer that lets one call through per interval.
func New(interval time.Duration, opts ...Option) *Pacer {
	p := &Pacer{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		clock:    realClock{},
		interval: interval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval is the configured minimum spacing.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks until the next call may start and records a call that ends
// immediately. If ctx is cancelled while waiting, no call is recorded and
// ctx.Err() is reported.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	p.finish()
	return nil
}

// Do waits for a slot and runs fn. The next interval starts when fn returns.
func (p *Pacer) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	defer p.finish()
	return fn(ctx)
}

// ready sleeps until the limiter holds a full token without taking it.
func (p *Pacer) ready(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}
	tokens := p.limiter.TokensAt(p.clock.Now())
	if tokens >= 1 {
		return nil
	}
	delay := time.Duration((1 - tokens) / float64(p.limiter.Limit()) * float64(time.Second))
	if delay <= 0 {
		return nil
	}
	return p.clock.Sleep(ctx, delay)
}

// finish takes the token at the end of a call.
func (p *Pacer) finish() {
	if p.interval <= 0 {
		return
	}
	p.limiter.ReserveN(p.clock.Now(), 1)
}
