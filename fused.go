// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"code.hybscloud.com/kont"
)

// SendThen writes p and then continues with next.
// Fuses Perform(Send{Data: p}) + Then.
func SendThen[B any](p []byte, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send{Data: p}), next)
}

// RecvBind reads at most size bytes and passes them to f.
// Fuses Perform(Recv{Max: size}) + Bind.
func RecvBind[B any](size int, f func([]byte) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv{Max: size}), f)
}

// CloseDone shuts the session down and returns a.
// Fuses Perform(Close{}) + Then + Pure.
func CloseDone[A any](a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Close{}), kont.Pure(a))
}
