// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"errors"
	"time"
)

// Direction is the readiness a wait is for.
type Direction uint8

const (
	// DirRead waits for the read descriptor to become readable.
	DirRead Direction = iota
	// DirWrite waits for the write descriptor to become writable.
	DirWrite
)

func (d Direction) String() string {
	if d == DirWrite {
		return "writable"
	}
	return "readable"
}

// Waiter blocks until fd is ready in dir or timeout elapses.
// It returns true only on readiness. A timeout is (false, nil);
// a failure of the wait primitive itself is (false, err).
type Waiter interface {
	Wait(fd int, dir Direction, timeout time.Duration) (bool, error)
}

// PollWaiter waits with poll(2) on a single descriptor.
type PollWaiter struct{}

// Wait implements Waiter.
func (PollWaiter) Wait(fd int, dir Direction, timeout time.Duration) (bool, error) {
	return pollWait(fd, dir, timeout)
}

var errNotPollable = errors.New("secsess: conn has no descriptor and no readiness report")

// waitConn resolves the descriptor of c for dir and waits on it.
// Descriptor-less conns report readiness instead.
func waitConn(w Waiter, c Conn, dir Direction, timeout time.Duration) (bool, error) {
	fd := c.ReadFD()
	if dir == DirWrite {
		fd = c.WriteFD()
	}
	if fd < 0 {
		p, ok := c.(Readier)
		if !ok {
			return false, errNotPollable
		}
		return readyWait(p, dir, timeout), nil
	}
	return w.Wait(fd, dir, timeout)
}

func (c Class) direction() Direction {
	if c == ClassWantWrite {
		return DirWrite
	}
	return DirRead
}
