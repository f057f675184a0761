// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a protocol until its first effect.
// Returns (result, nil) on completion, or (zero, suspension) if an effect
// is pending.
func Step[R any](protocol kont.Eff[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(kont.Reify(protocol))
}

// Advance dispatches the suspended effect on s through one bounded retry
// loop. On success the suspension is consumed and the protocol advances
// to its next effect or completes. On failure the suspension is returned
// unconsumed together with the error; the caller decides whether to
// advance it again or discard it.
func Advance[R any](s *Session, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	sop, ok := susp.Op().(sessionDispatcher)
	if !ok {
		panic("secsess: unhandled effect in Advance")
	}
	v, err := sop.dispatchSession(s)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
