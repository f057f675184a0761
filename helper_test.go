// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess_test

import (
	"testing"
	"time"

	"code.hybscloud.com/secsess"
)

// result is one scripted primitive outcome.
type result struct {
	n   int
	err error
}

// scriptConn replays scripted results for every operation. The last
// result repeats once the script runs out.
type scriptConn struct {
	script []result
	calls  int
	ops    []string
	rfd    int
	wfd    int
}

func newScriptConn(script ...result) *scriptConn {
	return &scriptConn{script: script, rfd: 7, wfd: 8}
}

func (c *scriptConn) next(op string) (int, error) {
	c.ops = append(c.ops, op)
	r := c.script[min(c.calls, len(c.script)-1)]
	c.calls++
	return r.n, r.err
}

func (c *scriptConn) Connect() (int, error)       { return c.next("connect") }
func (c *scriptConn) Accept() (int, error)        { return c.next("accept") }
func (c *scriptConn) Shutdown() (int, error)      { return c.next("shutdown") }
func (c *scriptConn) Read(p []byte) (int, error)  { return c.next("read") }
func (c *scriptConn) Write(p []byte) (int, error) { return c.next("write") }
func (c *scriptConn) ReadFD() int                 { return c.rfd }
func (c *scriptConn) WriteFD() int                { return c.wfd }

type waitCall struct {
	fd      int
	dir     secsess.Direction
	timeout time.Duration
}

// scriptWaiter answers readiness waits from a script. The last answer
// repeats. When block is set, a not-ready answer sleeps for the full
// timeout like a real wait would.
type scriptWaiter struct {
	ready []bool
	err   error
	block bool
	calls []waitCall
}

func (w *scriptWaiter) Wait(fd int, dir secsess.Direction, timeout time.Duration) (bool, error) {
	w.calls = append(w.calls, waitCall{fd: fd, dir: dir, timeout: timeout})
	ready := true
	if len(w.ready) > 0 {
		ready = w.ready[min(len(w.calls)-1, len(w.ready)-1)]
	}
	if ready {
		return true, nil
	}
	if w.block {
		time.Sleep(timeout)
	}
	return false, w.err
}

func alwaysReady() *scriptWaiter { return &scriptWaiter{ready: []bool{true}} }

func neverReady() *scriptWaiter { return &scriptWaiter{ready: []bool{false}} }

func newRetrier(wait time.Duration, attempts int, w secsess.Waiter) *secsess.Retrier {
	r := secsess.NewRetrier(secsess.Budget{Wait: wait, Attempts: attempts})
	r.Waiter = w
	return r
}

var (
	wantRead   = result{-1, secsess.ErrWantRead}
	wantWrite  = result{-1, secsess.ErrWantWrite}
	peerClosed = result{0, secsess.ErrPeerClosed}
)

// pipeSessions returns both ends of a pipe as sessions with their own
// retriers, handshaken.
func pipeSessions(tb testing.TB, capacity int, b secsess.Budget) (client, server *secsess.Session) {
	tb.Helper()
	a, c := secsess.Pipe(capacity)
	client = secsess.NewSession(a, secsess.NewRetrier(b))
	server = secsess.NewSession(c, secsess.NewRetrier(b))
	errc := make(chan error, 1)
	go func() { errc <- server.Accept() }()
	if err := client.Connect(); err != nil {
		tb.Fatalf("connect: %v", err)
	}
	if err := <-errc; err != nil {
		tb.Fatalf("accept: %v", err)
	}
	return client, server
}
