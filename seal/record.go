// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seal

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/nacl/box"
)

// Record layout: type (1 byte), body length (2 bytes, big endian), body.
const (
	headerLen = 3

	typeHello   byte = 1
	typeWelcome byte = 2
	typeSealed  byte = 3
)

// Inner types carried as the first plaintext byte of a sealed record,
// so the record kind is authenticated together with its payload.
const (
	innerData  byte = 1
	innerClose byte = 2
)

// MaxRecord is the largest plaintext carried by one data record.
const MaxRecord = 16384

const maxBody = MaxRecord + 1 + box.Overhead

var (
	magic   = [4]byte{'S', 'E', 'A', 'L'}
	version = byte(1)

	helloLen   = len(magic) + 1 + 32
	welcomeLen = 32 + 32 + box.Overhead

	// welcomeNonce is safe to fix: the client ephemeral key it is used
	// with is fresh for every handshake.
	welcomeNonce = [24]byte{'s', 'e', 'c', 's', 'e', 's', 's', '-', 'w', 'e', 'l', 'c', 'o', 'm', 'e'}

	labelC2S = [16]byte{'s', 'e', 'c', 's', 'e', 's', 's', '-', 's', 'e', 'a', 'l', '-', 'c', '2', 's'}
	labelS2C = [16]byte{'s', 'e', 'c', 's', 'e', 's', 's', '-', 's', 'e', 'a', 'l', '-', 's', '2', 'c'}
)

var errRecordTooLarge = errors.New("seal: record too large")

// appendRecord frames body as one record of type typ.
func appendRecord(dst []byte, typ byte, body []byte) []byte {
	dst = append(dst, typ, 0, 0)
	binary.BigEndian.PutUint16(dst[len(dst)-2:], uint16(len(body)))
	return append(dst, body...)
}

// parseRecord splits the first record off b. n is zero while the record
// is incomplete.
func parseRecord(b []byte) (typ byte, body []byte, n int, err error) {
	if len(b) < headerLen {
		return 0, nil, 0, nil
	}
	l := int(binary.BigEndian.Uint16(b[1:headerLen]))
	if l > maxBody {
		return 0, nil, 0, errRecordTooLarge
	}
	if len(b) < headerLen+l {
		return 0, nil, 0, nil
	}
	return b[0], b[headerLen : headerLen+l], headerLen + l, nil
}

// nonce is the per-record nonce: a direction label and a sequence number.
func nonce(label [16]byte, seq uint64) (n [24]byte) {
	copy(n[:16], label[:])
	binary.BigEndian.PutUint64(n[16:], seq)
	return n
}
