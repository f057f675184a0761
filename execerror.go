// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"code.hybscloud.com/kont"
)

// sessionErrorHandler handles both session and error effects.
// Session effects run through the bounded retry loop; a failing one and
// a Throw both short-circuit with Left.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type sessionErrorHandler[R any] struct {
	s      *Session
	errCtx *kont.ErrorContext[error]
}

// Dispatch implements kont.Handler for the composed Session+Error handler.
// Dispatch order: Session → Error.
func (h sessionErrorHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if sop, ok := op.(sessionDispatcher); ok {
		v, err := sop.dispatchSession(h.s)
		if err != nil {
			return kont.Left[error, R](err), false
		}
		return v, true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[error, R](h.errCtx.Err), false
		}
		return v, true
	}
	panic("secsess: unhandled effect in sessionErrorHandler")
}

// ExecError runs a protocol that may also throw with
// kont.ThrowError[error, T] or recover with kont.CatchError.
// Returns Right on completion, or Left with the thrown error or the first
// failing session effect's error.
func ExecError[R any](s *Session, protocol kont.Eff[R]) kont.Either[error, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := sessionErrorHandler[R]{s: s, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}
