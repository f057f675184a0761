// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"code.hybscloud.com/kont"
)

// sessionDispatcher is the structural interface for session effects.
// dispatchSession blocks for at most one bounded retry loop.
type sessionDispatcher interface {
	dispatchSession(s *Session) (kont.Resumed, error)
}

// sessionHandler implements kont.Handler for session effects.
// The first failing effect short-circuits the protocol with Left(err).
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type sessionHandler[R any] struct {
	s *Session
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h sessionHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	sop, ok := op.(sessionDispatcher)
	if !ok {
		panic("secsess: unhandled effect in sessionHandler")
	}
	v, err := sop.dispatchSession(h.s)
	if err != nil {
		return kont.Left[error, R](err), false
	}
	return v, true
}

// Exec runs a protocol on s. Every effect is dispatched through the
// session's bounded retry loop on the calling goroutine.
// Returns Right on completion, or Left with the first effect error.
func Exec[R any](s *Session, protocol kont.Eff[R]) kont.Either[error, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	h := sessionHandler[R]{s: s}
	return kont.Handle(wrapped, h)
}
