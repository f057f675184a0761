// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"code.hybscloud.com/kont"
)

// Loop repeats step, threading its state, until step yields a result.
// A step ending in Left(s) runs again with s; Right(a) completes the
// protocol with a. Effects in a step go through the session's retry loop
// like any other, so a failing step ends the whole Loop under Exec.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if next, ok := e.GetLeft(); ok {
			return Loop(next, step)
		}
		result, _ := e.GetRight()
		return kont.Pure(result)
	})
}
