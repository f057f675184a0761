// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"errors"
	"fmt"
	"strings"

	"code.hybscloud.com/iox"
)

var (
	// ErrWantRead is returned by a primitive that cannot progress until its
	// read descriptor becomes readable. It wraps iox.ErrWouldBlock.
	ErrWantRead = fmt.Errorf("secsess: want read: %w", iox.ErrWouldBlock)

	// ErrWantWrite is returned by a primitive that cannot progress until its
	// write descriptor becomes writable. It wraps iox.ErrWouldBlock.
	ErrWantWrite = fmt.Errorf("secsess: want write: %w", iox.ErrWouldBlock)

	// ErrPeerClosed reports an orderly close by the peer.
	ErrPeerClosed = errors.New("secsess: peer closed")

	// ErrExhausted reports that the attempt budget ran out while every
	// attempt was still recoverable.
	ErrExhausted = errors.New("secsess: retry budget exhausted")

	// ErrWaitTimeout reports that a readiness wait ended without readiness.
	ErrWaitTimeout = errors.New("secsess: readiness wait timed out")

	// ErrPollUnsupported is returned by PollWaiter on platforms without poll.
	ErrPollUnsupported = errors.New("secsess: poll not supported on this platform")
)

// OpError is the terminal non-success outcome of a retried operation.
// N and Class describe the last attempt.
type OpError struct {
	Op       string
	N        int
	Class    Class
	Attempts int
	Waits    int

	// Err is the error returned by the last attempt, possibly nil.
	Err error
	// Reason is ErrExhausted, ErrWaitTimeout, or nil when the last
	// classification was not recoverable.
	Reason error
	// WaitErr is set when the readiness wait itself failed rather than
	// timing out. Retry behaviour is the same in both cases.
	WaitErr error
}

func (e *OpError) Error() string {
	var b strings.Builder
	b.WriteString("secsess: ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Class.String())
	fmt.Fprintf(&b, " (result %d after %d attempts)", e.N, e.Attempts)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Reason != nil {
		b.WriteString(": ")
		b.WriteString(e.Reason.Error())
	}
	if e.WaitErr != nil {
		b.WriteString(": wait: ")
		b.WriteString(e.WaitErr.Error())
	}
	return b.String()
}

// Unwrap exposes the last error, the class sentinel, the reason and the
// wait error to errors.Is and errors.As.
func (e *OpError) Unwrap() []error {
	errs := make([]error, 0, 4)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if s := classSentinel(e.Class); s != nil && !errors.Is(e.Err, s) {
		errs = append(errs, s)
	}
	if e.Reason != nil {
		errs = append(errs, e.Reason)
	}
	if e.WaitErr != nil {
		errs = append(errs, e.WaitErr)
	}
	return errs
}

func classSentinel(c Class) error {
	switch c {
	case ClassWantRead:
		return ErrWantRead
	case ClassWantWrite:
		return ErrWantWrite
	case ClassPeerClosed:
		return ErrPeerClosed
	}
	return nil
}
