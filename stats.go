// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import "code.hybscloud.com/atomix"

// Stats counts retry loop activity. All counters are monotonic.
// A Retrier shared by several goroutines updates them atomically.
type Stats struct {
	ops        atomix.Uint64
	attempts   atomix.Uint64
	waits      atomix.Uint64
	timeouts   atomix.Uint64
	waitErrors atomix.Uint64
	exhausted  atomix.Uint64
	fatal      atomix.Uint64
	closed     atomix.Uint64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Ops        uint64 // retried operations started
	Attempts   uint64 // primitive invocations
	Waits      uint64 // readiness waits started
	Timeouts   uint64 // waits that ended without readiness
	WaitErrors uint64 // waits that failed in the wait primitive
	Exhausted  uint64 // operations that ran out of attempts
	Fatal      uint64 // operations that ended on a fatal classification
	Closed     uint64 // operations that ended on peer closure
}

// Snapshot loads every counter.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Ops:        s.ops.Load(),
		Attempts:   s.attempts.Load(),
		Waits:      s.waits.Load(),
		Timeouts:   s.timeouts.Load(),
		WaitErrors: s.waitErrors.Load(),
		Exhausted:  s.exhausted.Load(),
		Fatal:      s.fatal.Load(),
		Closed:     s.closed.Load(),
	}
}
