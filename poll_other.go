// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package secsess

import "time"

func pollWait(int, Direction, time.Duration) (bool, error) {
	return false, ErrPollUnsupported
}
