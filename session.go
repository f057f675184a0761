// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"errors"
	"io"
)

// Session is the blocking face of a Conn. Every method runs one bounded
// retry loop on the calling goroutine.
//
// The Session borrows its Conn: it neither creates nor configures it, and
// releases it only through Close. Operations on one Session must be
// serialized by the caller.
type Session struct {
	conn   Conn
	r      *Retrier
	serial Serial
}

// NewSession binds c to r. A nil r uses a fresh Retrier with DefaultBudget.
func NewSession(c Conn, r *Retrier) *Session {
	if r == nil {
		r = NewRetrier(DefaultBudget)
	}
	return &Session{conn: c, r: r, serial: nextSerial()}
}

// Serial returns the serial number assigned to this session.
func (s *Session) Serial() Serial {
	return s.serial
}

// Conn returns the underlying primitive.
func (s *Session) Conn() Conn {
	return s.conn
}

// Retrier returns the retrier driving this session.
func (s *Session) Retrier() *Retrier {
	return s.r
}

// Connect runs the client handshake.
func (s *Session) Connect() error {
	_, err := s.r.Do(s.conn, Connect{})
	return err
}

// Accept runs the server handshake.
func (s *Session) Accept() error {
	_, err := s.r.Do(s.conn, Accept{})
	return err
}

// Handshake runs the handshake for role.
func (s *Session) Handshake(role Role) error {
	_, err := s.r.Do(s.conn, Handshake(role))
	return err
}

// Shutdown sends the graceful close notification.
func (s *Session) Shutdown() error {
	_, err := s.r.Do(s.conn, Shutdown{})
	return err
}

// Read reads once into p. It returns (0, io.EOF) when the peer closed
// the session in an orderly way.
func (s *Session) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return s.r.Do(s.conn, Read{Buf: p})
}

// WriteOnce makes one retried write of p and returns the count the
// primitive accepted, which may be less than len(p). An empty p returns
// (0, nil) without invoking the primitive.
func (s *Session) WriteOnce(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return s.r.Do(s.conn, Write{Buf: p})
}

// Write writes all of p, one bounded retry loop per primitive write.
func (s *Session) Write(p []byte) (int, error) {
	var done int
	for done < len(p) {
		n, err := s.r.Do(s.conn, Write{Buf: p[done:]})
		if err != nil {
			return done, err
		}
		done += n
	}
	return done, nil
}

// Close optionally shuts the session down gracefully, then closes the
// Conn if it is an io.Closer. Both errors are reported.
func (s *Session) Close(shutdown bool) error {
	var errs []error
	if shutdown {
		if err := s.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := s.conn.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ io.Reader = (*Session)(nil)
	_ io.Writer = (*Session)(nil)
)
