// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

// Recover classifies the failed result (n, err) of an attempt on c and,
// for want-read and want-write, waits once for the matching readiness.
// It reports whether the operation should be attempted again.
// Peer closure and fatal results return false without waiting.
func (r *Retrier) Recover(c Conn, n int, err error) bool {
	ok, _ := r.recovery(c, classify(c, n, err))
	return ok
}

// recovery holds no state between calls. The returned error is set only
// when the wait primitive failed.
func (r *Retrier) recovery(c Conn, class Class) (bool, error) {
	if !class.Recoverable() {
		return false, nil
	}
	r.stats.waits.Add(1)
	ready, err := waitConn(r.waiter(), c, class.direction(), r.Budget.wait())
	if !ready {
		r.stats.timeouts.Add(1)
		if err != nil {
			r.stats.waitErrors.Add(1)
		}
	}
	return ready, err
}
