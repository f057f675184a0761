// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"code.hybscloud.com/kont"
)

// DefaultRecvMax is the receive buffer size used when Recv.Max is zero.
const DefaultRecvMax = 1024

// Send is the effect operation for writing Data to the session.
// Perform(Send{Data: p}) resumes with the number of bytes written.
type Send struct {
	kont.Phantom[int]
	Data []byte
}

// dispatchSession writes all of Data through the bounded retry loop.
func (op Send) dispatchSession(s *Session) (kont.Resumed, error) {
	n, err := s.Write(op.Data)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Recv is the effect operation for one read of at most Max bytes.
// Perform(Recv{}) resumes with the bytes read. Orderly closure by the
// peer fails the effect with io.EOF.
type Recv struct {
	kont.Phantom[[]byte]
	Max int
}

// dispatchSession reads once through the bounded retry loop.
func (op Recv) dispatchSession(s *Session) (kont.Resumed, error) {
	size := op.Max
	if size <= 0 {
		size = DefaultRecvMax
	}
	buf := make([]byte, size)
	n, err := s.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Close is the effect operation for graceful shutdown.
// Perform(Close{}) sends the close notification. It does not release
// the underlying Conn.
type Close struct {
	kont.Phantom[struct{}]
}

// dispatchSession runs Shutdown through the bounded retry loop.
func (Close) dispatchSession(s *Session) (kont.Resumed, error) {
	if err := s.Shutdown(); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}
