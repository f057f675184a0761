// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

// Conn is a non-blocking secure-transport primitive.
//
// Every method makes one attempt and never blocks. A positive n is success
// with that many units processed. A non-positive n must be classified: the
// error is expected to be ErrWantRead or ErrWantWrite when the primitive is
// merely not ready, ErrPeerClosed on orderly closure, and anything else on
// failure. A Conn that reports its results differently implements Classifier.
//
// ReadFD and WriteFD return the descriptors used for readiness waits.
// They may be equal. A negative descriptor means the direction is not
// pollable, in which case the Conn must implement Readier.
//
// A Conn is used by one goroutine at a time.
type Conn interface {
	Connect() (int, error)
	Accept() (int, error)
	Shutdown() (int, error)
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	ReadFD() int
	WriteFD() int
}

// Readier reports readiness of a Conn without a pollable descriptor.
type Readier interface {
	Readable() bool
	Writable() bool
}

// Role selects the handshake side.
type Role uint8

const (
	// RoleClient initiates the handshake with Connect.
	RoleClient Role = iota
	// RoleServer answers the handshake with Accept.
	RoleServer
)

func (r Role) String() string {
	if r == RoleServer {
		return "server"
	}
	return "client"
}
