// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"bytes"
	"errors"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// DefaultPipeCapacity is the number of records a pipe direction buffers.
const DefaultPipeCapacity = 4

// pipeRecordMax caps the payload of one pipe record.
const pipeRecordMax = 16384

var (
	pipeHello = []byte("secsess/pipe hello")
	pipeAck   = []byte("secsess/pipe ack")

	// ErrPipeClosed is returned when writing to a pipe after Shutdown.
	ErrPipeClosed = errors.New("secsess: pipe closed")

	errPipeHandshake      = errors.New("secsess: pipe handshake: unexpected record")
	errPipeNotEstablished = errors.New("secsess: pipe handshake not complete")
)

const (
	hsStart uint8 = iota
	hsHalf
	hsDone
)

// pipeDir is one direction of a pipe: a bounded SPSC record queue plus
// progress counters the producer and consumer publish for readiness checks.
type pipeDir struct {
	q        lfq.SPSC[[]byte]
	produced atomix.Uint64
	consumed atomix.Uint64
	closed   atomix.Uint32
}

// PipeConn is one end of an in-memory, non-blocking Conn pair.
// It has no descriptors and reports readiness through Readier.
// Each end belongs to one goroutine.
type PipeConn struct {
	in       *pipeDir
	out      *pipeDir
	capacity uint64
	slot     []byte
	pending  []byte
	hs       uint8
	shut     bool
}

// pipePair holds both ends and both directions in a single allocation.
type pipePair struct {
	a  PipeConn
	b  PipeConn
	ab pipeDir
	ba pipeDir
}

// Pipe creates a connected pair of PipeConns. Each direction buffers
// capacity records, rounded up to a power of two; capacity <= 0 selects
// DefaultPipeCapacity. A write to a full direction returns ErrWantWrite and
// a read from an empty one ErrWantRead.
func Pipe(capacity int) (*PipeConn, *PipeConn) {
	if capacity <= 0 {
		capacity = DefaultPipeCapacity
	}
	c := uint64(1)
	for c < uint64(capacity) {
		c <<= 1
	}
	pair := &pipePair{}
	// The rings get headroom so the counters, not the ring, decide fullness.
	pair.ab.q.Init(int(2 * c))
	pair.ba.q.Init(int(2 * c))
	pair.a = PipeConn{in: &pair.ba, out: &pair.ab, capacity: c}
	pair.b = PipeConn{in: &pair.ab, out: &pair.ba, capacity: c}
	return &pair.a, &pair.b
}

func (c *PipeConn) enqueue(rec []byte) error {
	if c.shut {
		return ErrPipeClosed
	}
	if c.out.produced.Load()-c.out.consumed.Load() >= c.capacity {
		return ErrWantWrite
	}
	c.slot = rec
	if err := c.out.q.Enqueue(&c.slot); err != nil {
		return ErrWantWrite
	}
	c.out.produced.Add(1)
	return nil
}

func (c *PipeConn) dequeue() ([]byte, error) {
	if rec, err := c.in.q.Dequeue(); err == nil {
		c.in.consumed.Add(1)
		return rec, nil
	}
	if c.in.closed.Load() == 0 {
		return nil, ErrWantRead
	}
	// The peer enqueues before it publishes closed: look once more.
	if rec, err := c.in.q.Dequeue(); err == nil {
		c.in.consumed.Add(1)
		return rec, nil
	}
	return nil, ErrPeerClosed
}

// pipeResult converts a queue error to a primitive result.
func pipeResult(err error) (int, error) {
	if errors.Is(err, ErrPeerClosed) {
		return 0, err
	}
	return -1, err
}

// Connect sends the hello record and waits for the acknowledgement.
func (c *PipeConn) Connect() (int, error) {
	switch c.hs {
	case hsStart:
		if err := c.enqueue(pipeHello); err != nil {
			return pipeResult(err)
		}
		c.hs = hsHalf
		fallthrough
	case hsHalf:
		rec, err := c.dequeue()
		if err != nil {
			return pipeResult(err)
		}
		if !bytes.Equal(rec, pipeAck) {
			return -1, errPipeHandshake
		}
		c.hs = hsDone
	}
	return 1, nil
}

// Accept waits for the hello record and sends the acknowledgement.
func (c *PipeConn) Accept() (int, error) {
	switch c.hs {
	case hsStart:
		rec, err := c.dequeue()
		if err != nil {
			return pipeResult(err)
		}
		if !bytes.Equal(rec, pipeHello) {
			return -1, errPipeHandshake
		}
		c.hs = hsHalf
		fallthrough
	case hsHalf:
		if err := c.enqueue(pipeAck); err != nil {
			return pipeResult(err)
		}
		c.hs = hsDone
	}
	return 1, nil
}

// Shutdown marks this direction closed. The peer drains the records
// already queued and then reads ErrPeerClosed.
func (c *PipeConn) Shutdown() (int, error) {
	if !c.shut {
		c.shut = true
		c.out.closed.Add(1)
	}
	return 1, nil
}

// Read copies the next buffered bytes into p.
func (c *PipeConn) Read(p []byte) (int, error) {
	if c.hs != hsDone {
		return -1, errPipeNotEstablished
	}
	if len(c.pending) == 0 {
		rec, err := c.dequeue()
		if err != nil {
			return pipeResult(err)
		}
		c.pending = rec
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Write queues at most one record of p.
func (c *PipeConn) Write(p []byte) (int, error) {
	if c.hs != hsDone {
		return -1, errPipeNotEstablished
	}
	if len(p) == 0 {
		return 0, nil
	}
	chunk := p[:min(len(p), pipeRecordMax)]
	if err := c.enqueue(bytes.Clone(chunk)); err != nil {
		return pipeResult(err)
	}
	return len(chunk), nil
}

// ReadFD returns -1: a pipe has no descriptor.
func (c *PipeConn) ReadFD() int { return -1 }

// WriteFD returns -1: a pipe has no descriptor.
func (c *PipeConn) WriteFD() int { return -1 }

// Readable reports whether Read would make progress.
func (c *PipeConn) Readable() bool {
	return len(c.pending) > 0 ||
		c.in.produced.Load() != c.in.consumed.Load() ||
		c.in.closed.Load() != 0
}

// Writable reports whether Write would make progress.
func (c *PipeConn) Writable() bool {
	return c.shut || c.out.produced.Load()-c.out.consumed.Load() < c.capacity
}

// Close shuts this end down.
func (c *PipeConn) Close() error {
	c.Shutdown()
	return nil
}

var (
	_ Conn   = (*PipeConn)(nil)
	_ Readier = (*PipeConn)(nil)
)
