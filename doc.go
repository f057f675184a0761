// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package secsess turns a non-blocking secure-transport primitive into
// bounded, blocking session operations.
//
// A primitive's handshake, read, write and shutdown may report that they
// are not ready yet on a perfectly healthy connection. A caller that treats
// every non-positive result as fatal aborts live sessions. secsess absorbs
// these results into a single bounded retry policy.
//
// # Architecture
//
//   - Primitive: a [Conn] makes one non-blocking attempt per call and reports
//     [ErrWantRead], [ErrWantWrite], [ErrPeerClosed] or a fatal error.
//   - Classification: [Classify] (or the Conn's own [Classifier]) maps a
//     result to a [Class].
//   - Readiness: a [Waiter] blocks on one descriptor for at most
//     [Budget].Wait. Conns without descriptors are polled through
//     adaptive backoff ([code.hybscloud.com/iox.Backoff]).
//   - Retry loop: [Retrier.Do] invokes one [Op] ([Connect], [Accept],
//     [Shutdown], [Read], [Write]) at most [Budget].Attempts times.
//
// The worst-case time of any operation is [Budget.Bound]. There is no
// cancellation: an operation ends on success, on a peer closure or fatal
// classification, on a readiness wait that times out, or when attempts
// run out.
//
// # Results
//
//   - A positive count returns (n, nil).
//   - [Read] returning zero on peer closure returns (0, [io.EOF]).
//   - Everything else returns the last raw result and an [*OpError] that
//     unwraps to the class sentinel, and to [ErrExhausted] or
//     [ErrWaitTimeout] when the budget or a wait ran out.
//
// # Sessions and protocols
//
//   - [Session] is the blocking facade over a Conn: Connect, Accept, Read,
//     Write, Shutdown and Close.
//   - Protocols: [Send], [Recv] and [Close] are kont effects; [Exec] runs a
//     protocol, dispatching every effect through the retry loop,
//     [ExecError] also handles kont error effects, and [Step]/[Advance]
//     evaluate a protocol one effect at a time.
//   - [Pipe] is an in-memory Conn pair on lock-free SPSC queues
//     ([code.hybscloud.com/lfq]); package seal provides an encrypted Conn
//     over socket descriptors.
//
// # Example
//
//	a, b := secsess.Pipe(0)
//	r := secsess.NewRetrier(secsess.Budget{Wait: 50 * time.Millisecond, Attempts: 10})
//	go secsess.NewSession(b, r).Accept()
//	s := secsess.NewSession(a, r)
//	if err := s.Connect(); err != nil {
//		// handshake failed or timed out
//	}
package secsess
