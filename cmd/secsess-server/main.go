// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command secsess-server is a sealed echo server. Every message it
// receives is answered with "you wrote to me: " followed by the message.
//
// Usage:
//
//	secsess-server [-config config.yaml] [-debug] [port]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"code.hybscloud.com/secsess"
	"code.hybscloud.com/secsess/internal/config"
	"code.hybscloud.com/secsess/internal/metrics"
	"code.hybscloud.com/secsess/seal"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [-debug] [port]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
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
	if flag.NArg() == 1 {
		cfg.Listen = ":" + flag.Arg(0)
	}

	level, _ := cfg.LogLevel()
	if *isDebug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})))

	sealCfg, err := cfg.ServerSeal()
	if err != nil {
		slog.Error("Invalid server key", "error", err)
		os.Exit(1)
	}

	// One retrier serves every connection so its counters cover the server.
	retrier := secsess.NewRetrier(cfg.Budget())

	var metricsSrv *metrics.Server
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg, retrier.Stats()); err != nil {
			slog.Error("Failed to register metrics", "error", err)
			os.Exit(1)
		}
		metricsSrv = metrics.NewServer(cfg.MetricsAddr, reg)
		go func() {
			if err := metricsSrv.Start(); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		slog.Info("Serving metrics", "addr", cfg.MetricsAddr)
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		slog.Error("Listen failed", "addr", cfg.Listen, "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received signal, shutting down...", "signal", sig)
		ln.Close()
	}()

	slog.Info("Waiting for incoming connections...", "addr", ln.Addr().String())
	srv := &server{seal: sealCfg, retrier: retrier, bufSize: cfg.BufferSize, idle: cfg.IdleTimeout}
	for {
		nc, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			slog.Error("Accept failed", "error", err)
			continue
		}
		go srv.serve(nc)
	}

	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Stop(ctx); err != nil {
			slog.Error("Metrics server shutdown failed", "error", err)
		}
	}
	slog.Info("Server stopped", "stats", retrier.Stats().Snapshot())
}

type server struct {
	seal    seal.Config
	retrier *secsess.Retrier
	bufSize int
	idle    time.Duration
}

// serve wraps one accepted connection and runs its session.
func (srv *server) serve(nc net.Conn) {
	log := slog.With("conn", uuid.NewString(), "remote", nc.RemoteAddr().String())
	tc, ok := nc.(*net.TCPConn)
	if !ok {
		log.Error("Unsupported connection type")
		nc.Close()
		return
	}
	sc, err := seal.FromConn(tc, srv.seal)
	nc.Close()
	if err != nil {
		log.Error("Failed to wrap connection", "error", err)
		return
	}
	srv.session(sc, log)
}
