// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command secsess-keygen prints a new server key pair in the form the
// configuration file expects.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"code.hybscloud.com/secsess/seal"
)

func main() {
	priv, pub, err := seal.GenKeyPair()
	if err != nil {
		slog.Error("Could not generate key pair", "error", err)
		os.Exit(1)
	}
	fmt.Printf("server_key: %s\n", priv)
	fmt.Printf("server_pubkey: %s\n", pub)
}
