// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess_test

import (
	"bytes"
	"io"
	"testing"
	"testing/quick"
	"time"

	"code.hybscloud.com/secsess"
)

// TestPropertySuccessAfterK proves that a primitive which wants k-1 times
// and then succeeds is invoked exactly k times with k-1 waits, for any k
// within the attempt budget.
func TestPropertySuccessAfterK(t *testing.T) {
	const attempts = 20
	property := func(k8 uint8, write bool) bool {
		k := int(k8)%attempts + 1
		want := wantRead
		var op secsess.Op = secsess.Read{Buf: make([]byte, 8)}
		if write {
			want = wantWrite
			op = secsess.Write{Buf: []byte("payload")}
		}
		script := make([]result, 0, k)
		for range k - 1 {
			script = append(script, want)
		}
		script = append(script, result{5, nil})

		c := newScriptConn(script...)
		w := alwaysReady()
		n, err := newRetrier(time.Millisecond, attempts, w).Do(c, op)
		return n == 5 && err == nil && c.calls == k && len(w.calls) == k-1
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyBoundedAttempts proves that no script of recoverable
// results makes the loop invoke the primitive more than Attempts times.
func TestPropertyBoundedAttempts(t *testing.T) {
	property := func(attempts8 uint8, pattern []bool) bool {
		attempts := int(attempts8)%30 + 1
		script := []result{wantRead}
		for _, r := range pattern {
			if r {
				script = append(script, wantRead)
			} else {
				script = append(script, wantWrite)
			}
		}
		c := newScriptConn(script...)
		_, err := newRetrier(time.Millisecond, attempts, alwaysReady()).Do(c, secsess.Connect{})
		return err != nil && c.calls <= attempts
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyPipeFIFO proves that any sequence of messages written to a
// pipe session arrives in order without loss or duplication.
func TestPropertyPipeFIFO(t *testing.T) {
	skipRace(t)
	property := func(msgs [][]byte) bool {
		client, server := pipeSessions(t, 2, testBudget)
		var want []byte
		for _, m := range msgs {
			want = append(want, m...)
		}
		go func() {
			for _, m := range msgs {
				if _, err := client.Write(m); err != nil {
					return
				}
			}
			client.Close(true)
		}()
		got, err := io.ReadAll(server)
		return err == nil && bytes.Equal(got, want)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
