// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command secsess-client sends lines read from standard input to a
// secsess-server and prints each reply.
//
// Usage:
//
//	secsess-client [-config config.yaml] [-pubkey P...] host port
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"code.hybscloud.com/secsess"
	"code.hybscloud.com/secsess/internal/config"
	"code.hybscloud.com/secsess/seal"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	pubkey := flag.String("pubkey", "", "Pinned server public key, overrides server_pubkey")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [-pubkey key] host port [i.e.: %s 127.0.0.1 8888]\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("Failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if *pubkey != "" {
		cfg.ServerPubkey = *pubkey
	}

	level, _ := cfg.LogLevel()
	if *isDebug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})))

	if err := run(cfg, net.JoinHostPort(flag.Arg(0), flag.Arg(1))); err != nil {
		slog.Error("Client failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, addr string) error {
	sealCfg, err := cfg.ClientSeal()
	if err != nil {
		return err
	}
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	sc, err := seal.FromConn(nc.(*net.TCPConn), sealCfg)
	nc.Close()
	if err != nil {
		return err
	}

	s := secsess.NewSession(sc, secsess.NewRetrier(cfg.Budget()))
	if err := s.Connect(); err != nil {
		s.Close(false)
		return fmt.Errorf("handshake failed: %w", err)
	}
	slog.Debug("Connected", "addr", addr, "session", s.Serial())

	in := bufio.NewScanner(os.Stdin)
	reply := make([]byte, cfg.BufferSize)
	for {
		fmt.Print("write a message to the remote server: ")
		if !in.Scan() {
			break
		}
		line := in.Bytes()
		if len(line) == 0 {
			continue
		}
		if _, err := s.Write(line); err != nil {
			s.Close(false)
			return fmt.Errorf("send failed: %w", err)
		}
		n, err := s.Read(reply)
		if err != nil {
			s.Close(false)
			return fmt.Errorf("recv failed: %w", err)
		}
		fmt.Printf("server reply: %s\n", reply[:n])
	}
	fmt.Println()
	if err := in.Err(); err != nil {
		s.Close(false)
		return err
	}
	return s.Close(true)
}
