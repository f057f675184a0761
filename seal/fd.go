// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package seal

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// FromConn duplicates the descriptor of sc, switches the duplicate to
// non-blocking mode and returns a Conn over it. The caller keeps sc and
// should close it once the Conn owns the socket.
func FromConn(sc syscall.Conn, cfg Config) (*Conn, error) {
	raw, err := sc.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("seal: syscall conn: %w", err)
	}
	fd := -1
	var dupErr error
	if err := raw.Control(func(s uintptr) {
		fd, dupErr = unix.Dup(int(s))
	}); err != nil {
		return nil, fmt.Errorf("seal: control: %w", err)
	}
	if dupErr != nil {
		return nil, fmt.Errorf("seal: dup: %w", dupErr)
	}
	unix.CloseOnExec(fd)
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("seal: set non-blocking: %w", err)
	}
	return New(fd, fd, cfg), nil
}

// Socketpair returns a connected pair of non-blocking stream descriptors.
func Socketpair() (int, int, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, -1, fmt.Errorf("seal: socketpair: %w", err)
	}
	for _, fd := range fds {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return -1, -1, fmt.Errorf("seal: set non-blocking: %w", err)
		}
	}
	return fds[0], fds[1], nil
}

// Pair returns a connected client and server Conn over a socketpair,
// both configured with the key pair (priv, pub).
func Pair(priv Privkey, pub Pubkey) (client, server *Conn, err error) {
	a, b, err := Socketpair()
	if err != nil {
		return nil, nil, err
	}
	return New(a, a, Config{ServerPubkey: pub}), New(b, b, Config{ServerKey: priv}), nil
}
