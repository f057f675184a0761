// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"errors"
	"io"
	"syscall"

	"code.hybscloud.com/iox"
)

// Class is the category assigned to the result of one primitive invocation.
// It decides whether the retry loop waits and tries again or stops.
type Class uint8

const (
	// ClassNone is implied by a positive result.
	ClassNone Class = iota
	// ClassWantRead: the primitive needs more input before it can complete.
	ClassWantRead
	// ClassWantWrite: the primitive needs pending output flushed first.
	ClassWantWrite
	// ClassPeerClosed: the peer ended the session in an orderly way.
	ClassPeerClosed
	// ClassFatal covers every other failure.
	ClassFatal
)

var classNames = [...]string{
	ClassNone:       "none",
	ClassWantRead:   "want-read",
	ClassWantWrite:  "want-write",
	ClassPeerClosed: "peer-closed",
	ClassFatal:      "fatal",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Recoverable reports whether the class can be recovered by a readiness wait.
func (c Class) Recoverable() bool {
	return c == ClassWantRead || c == ClassWantWrite
}

// Classifier is implemented by a Conn that inspects its own results,
// replacing the default Classify.
type Classifier interface {
	Classify(n int, err error) Class
}

// Classify maps the raw result of a primitive to a Class.
//
// A positive n is ClassNone regardless of err. Otherwise ErrWantRead,
// ErrWantWrite and ErrPeerClosed map to their classes, a bare would-block
// (iox.ErrWouldBlock or EAGAIN) is treated as want-read, io.EOF is peer
// closure, and everything else, including a non-positive n with a nil
// error, is fatal.
func Classify(n int, err error) Class {
	if n > 0 {
		return ClassNone
	}
	switch {
	case err == nil:
		return ClassFatal
	case errors.Is(err, ErrWantRead):
		return ClassWantRead
	case errors.Is(err, ErrWantWrite):
		return ClassWantWrite
	case errors.Is(err, ErrPeerClosed), errors.Is(err, io.EOF):
		return ClassPeerClosed
	case iox.IsWouldBlock(err), errors.Is(err, iox.ErrWouldBlock), errors.Is(err, syscall.EAGAIN):
		return ClassWantRead
	}
	return ClassFatal
}

// classify dispatches to the Conn's own Classifier when it has one.
func classify(c Conn, n int, err error) Class {
	if cl, ok := c.(Classifier); ok {
		return cl.Classify(n, err)
	}
	return Classify(n, err)
}

// ClassOf returns the classification carried by err.
// For an *OpError it is the class of the last attempt.
func ClassOf(err error) Class {
	if err == nil {
		return ClassNone
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Class
	}
	return Classify(0, err)
}
