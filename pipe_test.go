// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"code.hybscloud.com/secsess"
)

var testBudget = secsess.Budget{Wait: 200 * time.Millisecond, Attempts: 20}

func TestPipeNonBlocking(t *testing.T) {
	a, b := secsess.Pipe(1)

	// Handshake steps report what they are waiting for.
	if n, err := b.Accept(); n != -1 || !errors.Is(err, secsess.ErrWantRead) {
		t.Fatalf("accept before hello: got (%d, %v)", n, err)
	}
	if n, err := a.Connect(); n != -1 || !errors.Is(err, secsess.ErrWantRead) {
		t.Fatalf("connect before ack: got (%d, %v)", n, err)
	}
	if n, err := b.Accept(); n != 1 || err != nil {
		t.Fatalf("accept: got (%d, %v)", n, err)
	}
	if n, err := a.Connect(); n != 1 || err != nil {
		t.Fatalf("connect: got (%d, %v)", n, err)
	}

	if n, err := a.Write([]byte("one")); n != 3 || err != nil {
		t.Fatalf("write: got (%d, %v)", n, err)
	}
	if a.Writable() {
		t.Fatal("capacity 1 pipe should be full")
	}
	if n, err := a.Write([]byte("two")); n != -1 || !errors.Is(err, secsess.ErrWantWrite) {
		t.Fatalf("write to full pipe: got (%d, %v)", n, err)
	}
	if !b.Readable() {
		t.Fatal("peer should be readable")
	}
	buf := make([]byte, 2)
	if n, err := b.Read(buf); n != 2 || err != nil || string(buf) != "on" {
		t.Fatalf("read: got (%d, %v, %q)", n, err, buf[:max(n, 0)])
	}
	if n, err := b.Read(buf); n != 1 || err != nil || buf[0] != 'e' {
		t.Fatalf("read rest: got (%d, %v)", n, err)
	}
	if !a.Writable() {
		t.Fatal("pipe should be writable after the record was consumed")
	}
	if n, err := b.Read(buf); n != -1 || !errors.Is(err, secsess.ErrWantRead) {
		t.Fatalf("read empty: got (%d, %v)", n, err)
	}

	a.Shutdown()
	if n, err := b.Read(buf); n != 0 || !errors.Is(err, secsess.ErrPeerClosed) {
		t.Fatalf("read after shutdown: got (%d, %v)", n, err)
	}
	if n, err := a.Write([]byte("x")); n != -1 || !errors.Is(err, secsess.ErrPipeClosed) {
		t.Fatalf("write after shutdown: got (%d, %v)", n, err)
	}
}

func TestPipeReadBeforeHandshake(t *testing.T) {
	a, _ := secsess.Pipe(0)
	n, err := secsess.NewRetrier(testBudget).Do(a, secsess.Read{Buf: make([]byte, 4)})
	if n != -1 || secsess.ClassOf(err) != secsess.ClassFatal {
		t.Fatalf("got (%d, %v), want fatal", n, err)
	}
}

func TestPipeHandshakeMismatch(t *testing.T) {
	a, b := secsess.Pipe(0)
	// Both sides act as clients: each reads the other's hello as the ack.
	a.Connect()
	b.Connect()
	if n, err := a.Connect(); n != -1 || secsess.Classify(n, err) != secsess.ClassFatal {
		t.Fatalf("got (%d, %v), want fatal", n, err)
	}
}

func TestPipeReadyTimeout(t *testing.T) {
	skipRace(t)
	client, _ := pipeSessions(t, 0, secsess.Budget{Wait: 30 * time.Millisecond, Attempts: 3})
	start := time.Now()
	_, err := client.Read(make([]byte, 8))
	elapsed := time.Since(start)
	if !errors.Is(err, secsess.ErrWaitTimeout) || !errors.Is(err, secsess.ErrWantRead) {
		t.Fatalf("expected want-read timeout, got %v", err)
	}
	if elapsed < 30*time.Millisecond || elapsed > time.Second {
		t.Fatalf("elapsed %v, want about one ceiling", elapsed)
	}
}

func TestPipeBackpressure(t *testing.T) {
	skipRace(t)
	client, server := pipeSessions(t, 1, testBudget)
	payload := bytes.Repeat([]byte("0123456789abcdef"), 5000)

	errc := make(chan error, 1)
	go func() {
		_, err := client.Write(payload)
		errc <- err
	}()
	got := make([]byte, len(payload))
	if _, err := io.ReadFull(server, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("payload mismatch")
	}
	if s := client.Retrier().Stats().Snapshot(); s.Ops < 5 {
		t.Fatalf("expected one write op per record, got %+v", s)
	}
}

// TestPipeWaitWithinCeiling checks that a readiness wait on a pipe that
// never becomes ready ends within the per-attempt ceiling. Backoff sleeps
// grow toward 100ms, so a long ceiling is where an uncapped sleep overshoots.
func TestPipeWaitWithinCeiling(t *testing.T) {
	const slack = 3 * time.Millisecond
	for _, ceiling := range []time.Duration{5 * time.Millisecond, 60 * time.Millisecond, 250 * time.Millisecond} {
		a, _ := secsess.Pipe(0)
		r := secsess.NewRetrier(secsess.Budget{Wait: ceiling, Attempts: 1})
		start := time.Now()
		if r.Recover(a, -1, secsess.ErrWantRead) {
			t.Fatalf("ceiling %v: empty pipe reported readable", ceiling)
		}
		elapsed := time.Since(start)
		if elapsed < ceiling {
			t.Fatalf("ceiling %v: returned early after %v", ceiling, elapsed)
		}
		if elapsed > ceiling+slack {
			t.Fatalf("ceiling %v: waited %v, overshoot %v", ceiling, elapsed, elapsed-ceiling)
		}
	}
}
