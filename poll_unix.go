// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package secsess

import (
	"time"

	"golang.org/x/sys/unix"
)

// pollWait polls one descriptor. EINTR re-polls with the remaining time.
// POLLERR, POLLHUP and POLLNVAL count as ready so the next attempt
// observes the actual error from the primitive.
func pollWait(fd int, dir Direction, timeout time.Duration) (bool, error) {
	events := int16(unix.POLLIN)
	if dir == DirWrite {
		events = unix.POLLOUT
	}
	fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	deadline := time.Now().Add(timeout)
	for {
		n, err := unix.Poll(fds, pollMillis(time.Until(deadline)))
		if err == unix.EINTR {
			if time.Until(deadline) <= 0 {
				return false, nil
			}
			continue
		}
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
		return fds[0].Revents&(events|unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0, nil
	}
}

// pollMillis rounds d up to whole milliseconds.
func pollMillis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Millisecond - 1) / time.Millisecond)
}
