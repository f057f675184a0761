// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"time"

	"code.hybscloud.com/iox"
)

// readyWait checks p for readiness with adaptive backoff (iox.Backoff)
// until it is ready or timeout elapses. Every sleep is capped by the time
// left, jitter included, so the wait ends within timeout.
func readyWait(p Readier, dir Direction, timeout time.Duration) bool {
	ready := p.Readable
	if dir == DirWrite {
		ready = p.Writable
	}
	deadline := time.Now().Add(timeout)
	var bo iox.Backoff
	for {
		if ready() {
			return true
		}
		left := time.Until(deadline)
		if left <= 0 {
			return false
		}
		// Backoff jitter stretches a sleep by up to 1/8.
		bo.SetMax(max(left*8/9, time.Microsecond))
		bo.Wait()
	}
}
