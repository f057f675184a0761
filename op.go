// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

// Op is one of the primitive operations the retry loop can drive:
// Connect, Accept, Shutdown, Read and Write. The set is closed.
type Op interface {
	attempt(c Conn) (int, error)
	// zeroIsEOF reports whether a zero result ends the loop as an
	// orderly closure instead of being classified.
	zeroIsEOF() bool
	String() string
}

// Connect is the client side of the handshake.
type Connect struct{}

func (Connect) attempt(c Conn) (int, error) { return c.Connect() }
func (Connect) zeroIsEOF() bool             { return false }
func (Connect) String() string              { return "connect" }

// Accept is the server side of the handshake.
type Accept struct{}

func (Accept) attempt(c Conn) (int, error) { return c.Accept() }
func (Accept) zeroIsEOF() bool             { return false }
func (Accept) String() string              { return "accept" }

// Shutdown sends the graceful close notification.
type Shutdown struct{}

func (Shutdown) attempt(c Conn) (int, error) { return c.Shutdown() }
func (Shutdown) zeroIsEOF() bool             { return false }
func (Shutdown) String() string              { return "shutdown" }

// Read reads into Buf. A zero result is an orderly closure.
type Read struct {
	Buf []byte
}

func (op Read) attempt(c Conn) (int, error) { return c.Read(op.Buf) }
func (Read) zeroIsEOF() bool                { return true }
func (Read) String() string                 { return "read" }

// Write writes Buf. A retry after ErrWantWrite must pass the same Buf.
type Write struct {
	Buf []byte
}

func (op Write) attempt(c Conn) (int, error) { return c.Write(op.Buf) }
func (Write) zeroIsEOF() bool                { return false }
func (Write) String() string                 { return "write" }

// Handshake returns the handshake op for role.
func Handshake(role Role) Op {
	if role == RoleServer {
		return Accept{}
	}
	return Connect{}
}
