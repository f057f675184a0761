// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seal

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

// Privkey is a static Curve25519 private key.
// Its string form is the letter "p" followed by 32 bytes in base64.
type Privkey [32]byte

// Pubkey is a static Curve25519 public key.
// Its string form is the letter "P" followed by 32 bytes in base64.
type Pubkey [32]byte

func (k Privkey) String() string {
	return "p" + base64.StdEncoding.EncodeToString(k[:])
}

func (k Pubkey) String() string {
	return "P" + base64.StdEncoding.EncodeToString(k[:])
}

// IsZero reports whether k is unset.
func (k Privkey) IsZero() bool { return k == Privkey{} }

// IsZero reports whether k is unset.
func (k Pubkey) IsZero() bool { return k == Pubkey{} }

// Public derives the public key of k.
func (k Privkey) Public() (Pubkey, error) {
	out, err := curve25519.X25519(k[:], curve25519.Basepoint)
	if err != nil {
		return Pubkey{}, fmt.Errorf("seal: derive public key: %w", err)
	}
	return Pubkey(out), nil
}

// GenKeyPair generates a static key pair. It is safe for concurrent use.
func GenKeyPair() (Privkey, Pubkey, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return Privkey{}, Pubkey{}, fmt.Errorf("seal: generate key: %w", err)
	}
	return Privkey(*priv), Pubkey(*pub), nil
}

// PrivkeyFromString parses the string form of a Privkey.
func PrivkeyFromString(s string) (Privkey, error) {
	b, err := keyFromString(s, 'p', 'P', "private")
	return Privkey(b), err
}

// PubkeyFromString parses the string form of a Pubkey.
func PubkeyFromString(s string) (Pubkey, error) {
	b, err := keyFromString(s, 'P', 'p', "public")
	return Pubkey(b), err
}

func keyFromString(s string, prefix, other byte, kind string) (k [32]byte, err error) {
	if len(s) < 1 {
		return k, fmt.Errorf("seal: %s key is empty", kind)
	}
	switch s[0] {
	case prefix:
	case other:
		return k, fmt.Errorf("seal: %s key %q looks like the other half of a key pair", kind, s)
	default:
		return k, fmt.Errorf("seal: %s key %q is not valid", kind, s)
	}
	data, err := base64.StdEncoding.DecodeString(s[1:])
	if err != nil {
		return k, fmt.Errorf("seal: %s key: %w", kind, err)
	}
	if len(data) != len(k) {
		return k, fmt.Errorf("seal: %s key does not decode to %d bytes", kind, len(k))
	}
	copy(k[:], data)
	return k, nil
}

// Config holds the static keys. A server needs ServerKey; a client needs
// ServerPubkey, the pinned public key it verifies the server against.
type Config struct {
	ServerKey    Privkey
	ServerPubkey Pubkey
}
