// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/secsess"
)

func TestStepPure(t *testing.T) {
	v, susp := secsess.Step(kont.Pure(7))
	if susp != nil || v != 7 {
		t.Fatalf("got (%d, %v), want (7, nil)", v, susp)
	}
}

func TestStepAdvance(t *testing.T) {
	c := newScriptConn(result{3, nil})
	s := secsess.NewSession(c, nil)
	protocol := secsess.SendThen([]byte("abc"), secsess.RecvBind(3, func(p []byte) kont.Eff[int] {
		return secsess.CloseDone(len(p))
	}))

	_, susp := secsess.Step(protocol)
	steps := 0
	var (
		v   int
		err error
	)
	for susp != nil {
		v, susp, err = secsess.Advance(s, susp)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		steps++
	}
	if v != 3 || steps != 3 {
		t.Fatalf("got (%d after %d steps), want (3 after 3)", v, steps)
	}
	want := []string{"write", "read", "shutdown"}
	for i, op := range want {
		if c.ops[i] != op {
			t.Fatalf("ops: got %v, want %v", c.ops, want)
		}
	}
}

func TestAdvanceFailureKeepsSuspension(t *testing.T) {
	skipRace(t)
	client, server := pipeSessions(t, 0, secsess.Budget{Wait: 10 * time.Millisecond, Attempts: 2})
	protocol := secsess.RecvBind(16, func(p []byte) kont.Eff[string] {
		return kont.Pure(string(p))
	})

	_, susp := secsess.Step(protocol)
	if susp == nil {
		t.Fatal("expected a pending Recv")
	}
	_, again, err := secsess.Advance(client, susp)
	if !errors.Is(err, secsess.ErrWaitTimeout) {
		t.Fatalf("expected wait timeout, got %v", err)
	}
	if again != susp {
		t.Fatal("failed Advance must return the same suspension")
	}

	if _, err := server.Write([]byte("late")); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, next, err := secsess.Advance(client, again)
	if err != nil || next != nil || v != "late" {
		t.Fatalf("got (%q, %v, %v)", v, next, err)
	}
}

func TestAdvanceUnhandledPanics(t *testing.T) {
	type bogus struct{ kont.Phantom[int] }

	_, susp := secsess.Step(kont.Perform(bogus{}))
	s := secsess.NewSession(newScriptConn(result{1, nil}), nil)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for unhandled effect")
		}
	}()
	secsess.Advance(s, susp)
}
