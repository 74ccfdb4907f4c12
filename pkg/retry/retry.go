// Retry policies for VSS write operations.
//
// A Policy is the sole authority on the retry budget: Do itself enforces no
// attempt cap. Policies are consulted once per failed attempt and must be safe
// for concurrent use, since one policy instance is typically shared by every
// in-flight call of a client.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Policy decides what to do after a failed attempt. attempt counts from 1.
// It returns the delay to wait before the next attempt, or ok=false to stop
// and surface the error from the last attempt unchanged.
type Policy interface {
	Next(attempt int, err error) (delay time.Duration, ok bool)
}

// PolicyFunc adapts a plain function to a Policy.
type PolicyFunc func(attempt int, err error) (time.Duration, bool)

func (f PolicyFunc) Next(attempt int, err error) (time.Duration, bool) {
	return f(attempt, err)
}

// Do runs op until it succeeds or policy says stop. Attempts are strictly
// sequential; the wait between attempts is cut short by ctx, in which case
// the context error is returned.
func Do(ctx context.Context, policy Policy, op func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		delay, ok := policy.Next(attempt, err)
		if !ok {
			return err
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// ExponentialBackoff retries every error with delay Base*2^(attempt-1).
// Combine with WithMaxAttempts, WithMaxTotalDelay or If to bound it.
type ExponentialBackoff struct {
	Base time.Duration
}

func (p ExponentialBackoff) Next(attempt int, err error) (time.Duration, bool) {
	d := p.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d > maxBackoff {
			return maxBackoff, true
		}
	}
	return d, true
}

// Delay growth is capped so long-lived unbounded policies don't overflow.
const maxBackoff = 5 * time.Minute

// WithMaxAttempts stops after n total attempts regardless of what p decides.
func WithMaxAttempts(p Policy, n int) Policy {
	return PolicyFunc(func(attempt int, err error) (time.Duration, bool) {
		if attempt >= n {
			return 0, false
		}
		return p.Next(attempt, err)
	})
}

// WithMaxTotalDelay stops once the delays handed out for one call would
// exceed max in total. The running total is reconstructed from p, which keeps
// the combinator stateless and therefore safe to share across concurrent
// calls; p's delay must depend only on the attempt number (true for
// ExponentialBackoff; apply WithJitter outside this wrapper).
func WithMaxTotalDelay(p Policy, max time.Duration) Policy {
	return PolicyFunc(func(attempt int, err error) (time.Duration, bool) {
		var total time.Duration
		for i := 1; i <= attempt; i++ {
			d, ok := p.Next(i, err)
			if !ok {
				return 0, false
			}
			total += d
			if total > max {
				return 0, false
			}
			if i == attempt {
				return d, true
			}
		}
		return 0, false
	})
}

// WithJitter spreads each delay uniformly across [d*(1-frac), d*(1+frac)].
// Uses the locked global rand source, so the returned policy stays safe for
// concurrent use.
func WithJitter(p Policy, frac float64) Policy {
	return PolicyFunc(func(attempt int, err error) (time.Duration, bool) {
		delay, ok := p.Next(attempt, err)
		if !ok || delay <= 0 {
			return delay, ok
		}
		spread := 1 - frac + 2*frac*rand.Float64()
		return time.Duration(float64(delay) * spread), true
	})
}

// If retries only errors matching pred; everything else stops immediately.
func If(p Policy, pred func(error) bool) Policy {
	return PolicyFunc(func(attempt int, err error) (time.Duration, bool) {
		if !pred(err) {
			return 0, false
		}
		return p.Next(attempt, err)
	})
}

// None never retries. Useful as an explicit policy for clients that want a
// single attempt even for writes.
func None() Policy {
	return PolicyFunc(func(int, error) (time.Duration, bool) {
		return 0, false
	})
}
