// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package seal

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/sys/unix"

	"code.hybscloud.com/secsess"
)

var (
	// ErrHandshake reports a malformed or unexpected handshake record.
	ErrHandshake = errors.New("seal: handshake failed")
	// ErrAuth reports a record or server proof that failed authentication.
	ErrAuth = errors.New("seal: authentication failed")
	// ErrTruncated reports end of stream without a close record.
	ErrTruncated = errors.New("seal: stream truncated")
	// ErrNoKey reports a handshake attempted without the key it needs.
	ErrNoKey = errors.New("seal: key not configured")
	// ErrNotEstablished reports data transfer before the handshake completed.
	ErrNotEstablished = errors.New("seal: session not established")
	// ErrClosed reports a write after Shutdown or use after Close.
	ErrClosed = errors.New("seal: session closed")
)

type handshakeState uint8

const (
	hsInit handshakeState = iota
	hsClientFlushHello
	hsClientAwaitWelcome
	hsServerAwaitHello
	hsServerFlushWelcome
	hsEstablished
)

// Conn is a non-blocking authenticated-encryption session over raw
// descriptors. It implements secsess.Conn: every method makes one attempt
// and returns secsess.ErrWantRead or secsess.ErrWantWrite when the
// descriptor is not ready.
//
// A Write that returns ErrWantWrite keeps its sealed record pending; the
// retry must pass the same buffer and reports the pending count once the
// record is flushed.
type Conn struct {
	rfd, wfd int
	cfg      Config

	hs      handshakeState
	ephPriv [32]byte
	ephPub  [32]byte
	shared  [32]byte
	sendLbl [16]byte
	recvLbl [16]byte
	sendSeq uint64
	recvSeq uint64

	in       []byte
	out      []byte
	plain    []byte
	scratch  []byte
	pendingN int

	sentClose  bool
	peerClosed bool
	closed     bool
	err        error
}

// New returns a Conn over the non-blocking descriptors rfd and wfd,
// which may be equal. The Conn takes ownership of both.
func New(rfd, wfd int, cfg Config) *Conn {
	return &Conn{rfd: rfd, wfd: wfd, cfg: cfg}
}

// ReadFD implements secsess.Conn.
func (c *Conn) ReadFD() int { return c.rfd }

// WriteFD implements secsess.Conn.
func (c *Conn) WriteFD() int { return c.wfd }

// Established reports whether the handshake has completed.
func (c *Conn) Established() bool { return c.hs == hsEstablished }

// fail records a sticky fatal error.
func (c *Conn) fail(err error) (int, error) {
	if c.err == nil {
		c.err = err
	}
	return -1, err
}

// result converts an I/O error into a primitive result.
func (c *Conn) result(err error) (int, error) {
	switch {
	case errors.Is(err, secsess.ErrWantRead), errors.Is(err, secsess.ErrWantWrite):
		return -1, err
	case errors.Is(err, secsess.ErrPeerClosed):
		return 0, err
	}
	return c.fail(err)
}

func (c *Conn) usable() error {
	if c.closed {
		return ErrClosed
	}
	return c.err
}

// Connect runs one step of the client handshake.
func (c *Conn) Connect() (int, error) {
	if err := c.usable(); err != nil {
		return -1, err
	}
	for {
		switch c.hs {
		case hsInit:
			if c.cfg.ServerPubkey.IsZero() {
				return c.fail(fmt.Errorf("%w: server public key", ErrNoKey))
			}
			if err := c.genEphemeral(); err != nil {
				return c.fail(err)
			}
			body := make([]byte, 0, helloLen)
			body = append(body, magic[:]...)
			body = append(body, version)
			body = append(body, c.ephPub[:]...)
			c.out = appendRecord(c.out, typeHello, body)
			c.hs = hsClientFlushHello
		case hsClientFlushHello:
			if err := c.flush(); err != nil {
				return c.result(err)
			}
			c.hs = hsClientAwaitWelcome
		case hsClientAwaitWelcome:
			typ, body, err := c.readRecord()
			if err != nil {
				return c.result(err)
			}
			if typ != typeWelcome || len(body) != welcomeLen {
				return c.fail(ErrHandshake)
			}
			var serverEph [32]byte
			copy(serverEph[:], body[:32])
			spub := [32]byte(c.cfg.ServerPubkey)
			proof, ok := box.Open(nil, body[32:], &welcomeNonce, &spub, &c.ephPriv)
			if !ok || !bytes.Equal(proof, serverEph[:]) {
				return c.fail(ErrAuth)
			}
			box.Precompute(&c.shared, &serverEph, &c.ephPriv)
			c.sendLbl, c.recvLbl = labelC2S, labelS2C
			c.hs = hsEstablished
		case hsEstablished:
			return 1, nil
		default:
			return c.fail(fmt.Errorf("%w: connect on a server session", ErrHandshake))
		}
	}
}

// Accept runs one step of the server handshake.
func (c *Conn) Accept() (int, error) {
	if err := c.usable(); err != nil {
		return -1, err
	}
	for {
		switch c.hs {
		case hsInit:
			if c.cfg.ServerKey.IsZero() {
				return c.fail(fmt.Errorf("%w: server private key", ErrNoKey))
			}
			c.hs = hsServerAwaitHello
		case hsServerAwaitHello:
			typ, body, err := c.readRecord()
			if err != nil {
				return c.result(err)
			}
			if typ != typeHello || len(body) != helloLen ||
				!bytes.Equal(body[:len(magic)], magic[:]) || body[len(magic)] != version {
				return c.fail(ErrHandshake)
			}
			var clientEph [32]byte
			copy(clientEph[:], body[len(magic)+1:])
			if err := c.genEphemeral(); err != nil {
				return c.fail(err)
			}
			skey := [32]byte(c.cfg.ServerKey)
			msg := make([]byte, 0, welcomeLen)
			msg = append(msg, c.ephPub[:]...)
			msg = box.Seal(msg, c.ephPub[:], &welcomeNonce, &clientEph, &skey)
			c.out = appendRecord(c.out, typeWelcome, msg)
			box.Precompute(&c.shared, &clientEph, &c.ephPriv)
			c.sendLbl, c.recvLbl = labelS2C, labelC2S
			c.hs = hsServerFlushWelcome
		case hsServerFlushWelcome:
			if err := c.flush(); err != nil {
				return c.result(err)
			}
			c.hs = hsEstablished
		case hsEstablished:
			return 1, nil
		default:
			return c.fail(fmt.Errorf("%w: accept on a client session", ErrHandshake))
		}
	}
}

// Shutdown queues the authenticated close record and flushes it.
// It returns 1 once the record is written; it does not wait for the
// peer's close.
func (c *Conn) Shutdown() (int, error) {
	if err := c.usable(); err != nil {
		return -1, err
	}
	if c.hs != hsEstablished {
		return -1, ErrNotEstablished
	}
	if !c.sentClose {
		c.sealRecord(innerClose, nil)
		c.sentClose = true
	}
	if err := c.flush(); err != nil {
		return c.result(err)
	}
	return 1, nil
}

// Read returns decrypted bytes. After the peer's close record it returns
// (0, secsess.ErrPeerClosed).
func (c *Conn) Read(p []byte) (int, error) {
	if err := c.usable(); err != nil {
		return -1, err
	}
	if c.hs != hsEstablished {
		return -1, ErrNotEstablished
	}
	for len(c.plain) == 0 {
		if c.peerClosed {
			return 0, secsess.ErrPeerClosed
		}
		typ, body, err := c.readRecord()
		if err != nil {
			return c.result(err)
		}
		if typ != typeSealed {
			return c.fail(fmt.Errorf("%w: record type %d after handshake", ErrHandshake, typ))
		}
		plain, err := c.openRecord(body)
		if err != nil {
			return c.fail(err)
		}
		switch plain[0] {
		case innerData:
			c.plain = plain[1:]
		case innerClose:
			c.peerClosed = true
		default:
			return c.fail(fmt.Errorf("%w: inner type %d", ErrAuth, plain[0]))
		}
	}
	n := copy(p, c.plain)
	c.plain = c.plain[n:]
	return n, nil
}

// Write seals at most MaxRecord bytes of p into one record and flushes it.
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.usable(); err != nil {
		return -1, err
	}
	if c.hs != hsEstablished {
		return -1, ErrNotEstablished
	}
	if c.pendingN == 0 {
		if c.sentClose {
			return -1, ErrClosed
		}
		if len(p) == 0 {
			return 0, nil
		}
		chunk := p[:min(len(p), MaxRecord)]
		c.sealRecord(innerData, chunk)
		c.pendingN = len(chunk)
	}
	if err := c.flush(); err != nil {
		return c.result(err)
	}
	n := c.pendingN
	c.pendingN = 0
	return n, nil
}

// Close releases the descriptors. It does not send a close record.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := unix.Close(c.rfd)
	if c.wfd != c.rfd {
		if werr := unix.Close(c.wfd); err == nil {
			err = werr
		}
	}
	return err
}

func (c *Conn) genEphemeral() error {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("seal: ephemeral key: %w", err)
	}
	c.ephPub, c.ephPriv = *pub, *priv
	return nil
}

func (c *Conn) sealRecord(inner byte, p []byte) {
	msg := make([]byte, 0, 1+len(p))
	msg = append(msg, inner)
	msg = append(msg, p...)
	n := nonce(c.sendLbl, c.sendSeq)
	c.sendSeq++
	c.out = appendRecord(c.out, typeSealed, box.SealAfterPrecomputation(nil, msg, &n, &c.shared))
}

func (c *Conn) openRecord(body []byte) ([]byte, error) {
	n := nonce(c.recvLbl, c.recvSeq)
	plain, ok := box.OpenAfterPrecomputation(nil, body, &n, &c.shared)
	if !ok || len(plain) == 0 {
		return nil, ErrAuth
	}
	c.recvSeq++
	return plain, nil
}

// flush writes pending output until it is empty or the descriptor
// would block.
func (c *Conn) flush() error {
	for len(c.out) > 0 {
		n, err := unix.Write(c.wfd, c.out)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return secsess.ErrWantWrite
		case err != nil:
			return fmt.Errorf("seal: write: %w", err)
		}
		c.out = c.out[n:]
	}
	c.out = nil
	return nil
}

// readRecord returns the next complete record, reading from the
// descriptor as needed.
func (c *Conn) readRecord() (byte, []byte, error) {
	for {
		typ, body, n, err := parseRecord(c.in)
		if err != nil {
			return 0, nil, err
		}
		if n > 0 {
			c.in = c.in[n:]
			if len(c.in) == 0 {
				c.in = nil
			}
			return typ, body, nil
		}
		if err := c.fill(); err != nil {
			return 0, nil, err
		}
	}
}

const readChunk = 32 << 10

func (c *Conn) fill() error {
	if c.scratch == nil {
		c.scratch = make([]byte, readChunk)
	}
	for {
		n, err := unix.Read(c.rfd, c.scratch)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return secsess.ErrWantRead
		case err != nil:
			return fmt.Errorf("seal: read: %w", err)
		case n == 0:
			return ErrTruncated
		}
		c.in = append(c.in, c.scratch[:n]...)
		return nil
	}
}

var _ secsess.Conn = (*Conn)(nil)
