// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"io"
	"time"
)

const (
	// DefaultWait is the per-attempt readiness wait ceiling.
	DefaultWait = 100 * time.Millisecond
	// DefaultAttempts is the maximum number of attempts per operation.
	DefaultAttempts = 20
)

// Budget bounds a retried operation: at most Attempts invocations of the
// primitive, and at most Wait spent in each readiness wait.
// Zero fields take the defaults.
type Budget struct {
	Wait     time.Duration
	Attempts int
}

// DefaultBudget allows 20 attempts of 100ms each, 2s in the worst case.
var DefaultBudget = Budget{Wait: DefaultWait, Attempts: DefaultAttempts}

func (b Budget) wait() time.Duration {
	if b.Wait <= 0 {
		return DefaultWait
	}
	return b.Wait
}

func (b Budget) attempts() int {
	if b.Attempts <= 0 {
		return DefaultAttempts
	}
	return b.Attempts
}

// Bound returns the worst-case time spent waiting in one operation.
func (b Budget) Bound() time.Duration {
	return b.wait() * time.Duration(b.attempts())
}

// Retrier drives primitives to completion within a Budget.
// The zero value uses DefaultBudget and PollWaiter.
// A Retrier may be shared; each Do call is independent.
type Retrier struct {
	Budget Budget
	// Waiter performs descriptor readiness waits. Nil means PollWaiter.
	Waiter Waiter

	stats Stats
}

// NewRetrier returns a Retrier with budget b.
func NewRetrier(b Budget) *Retrier {
	return &Retrier{Budget: b}
}

// Stats returns the retrier's counters.
func (r *Retrier) Stats() *Stats {
	return &r.stats
}

func (r *Retrier) waiter() Waiter {
	if r.Waiter == nil {
		return PollWaiter{}
	}
	return r.Waiter
}

// Do invokes op on c until it succeeds, fails definitively, or the
// budget is spent.
//
// A positive result returns (n, nil). For Read, a zero result that is
// either unclassified or classified as peer closure returns (0, io.EOF);
// for every other op a zero result is classified like a negative one.
// Every other outcome returns the last raw result and an *OpError.
func (r *Retrier) Do(c Conn, op Op) (int, error) {
	r.stats.ops.Add(1)
	limit := r.Budget.attempts()
	var (
		n       int
		err     error
		class   Class
		waits   int
		waitErr error
	)
	for attempt := 1; ; attempt++ {
		if attempt > limit {
			r.stats.exhausted.Add(1)
			return n, &OpError{Op: op.String(), N: n, Class: class, Attempts: limit, Waits: waits, Err: err, Reason: ErrExhausted}
		}
		r.stats.attempts.Add(1)
		n, err = op.attempt(c)
		if n > 0 {
			return n, nil
		}
		class = classify(c, n, err)
		if n == 0 && op.zeroIsEOF() && (err == nil || class == ClassPeerClosed) {
			r.stats.closed.Add(1)
			return 0, io.EOF
		}
		if !class.Recoverable() {
			if class == ClassPeerClosed {
				r.stats.closed.Add(1)
			} else {
				r.stats.fatal.Add(1)
			}
			return n, &OpError{Op: op.String(), N: n, Class: class, Attempts: attempt, Waits: waits, Err: err}
		}
		waits++
		var ready bool
		ready, waitErr = r.recovery(c, class)
		if !ready {
			return n, &OpError{Op: op.String(), N: n, Class: class, Attempts: attempt, Waits: waits, Err: err, Reason: ErrWaitTimeout, WaitErr: waitErr}
		}
	}
}
