// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package seal is a non-blocking secure transport over raw stream
// descriptors, suitable for driving with [code.hybscloud.com/secsess].
//
// The server holds a static Curve25519 key pair; the client pins the
// server's public key. The handshake exchanges ephemeral keys and the
// server proves possession of its static key, after which every record
// is sealed with NaCl box over the ephemeral shared key.
//
// Every [Conn] method makes one attempt on the descriptor and returns
// [secsess.ErrWantRead] or [secsess.ErrWantWrite] instead of blocking.
//
//	priv, pub, _ := seal.GenKeyPair()
//	cli, srv, _ := seal.Pair(priv, pub)
//	go secsess.NewSession(srv, nil).Accept()
//	err := secsess.NewSession(cli, nil).Connect()
package seal
