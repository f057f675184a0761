// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/secsess"
)

var replyPrefix = []byte("you wrote to me: ")

// errIdle ends a session that stayed quiet past the idle timeout.
var errIdle = errors.New("session idle")

// session runs the handshake and the echo loop on c, then closes it.
// It returns the reason the session ended.
func (srv *server) session(c secsess.Conn, log *slog.Logger) error {
	s := secsess.NewSession(c, srv.retrier)
	log = log.With("session", s.Serial())
	if err := s.Accept(); err != nil {
		log.Error("Handshake failed", "error", err, "class", secsess.ClassOf(err))
		s.Close(false)
		return err
	}
	log.Info("Client connected")

	err := runEcho(s, srv.bufSize, srv.idle, log)
	shutdown := true
	switch {
	case errors.Is(err, io.EOF):
		log.Info("Client disconnected")
	case errors.Is(err, errIdle):
		log.Info("Closing idle session", "idle", srv.idle)
	case secsess.ClassOf(err) == secsess.ClassFatal:
		log.Error("Session failed", "error", err)
		shutdown = false
	default:
		log.Warn("Session abandoned", "error", err, "class", secsess.ClassOf(err))
	}
	if cerr := s.Close(shutdown); cerr != nil {
		log.Debug("Close", "error", cerr)
	}
	return err
}

// echo answers every message until a receive fails. It never completes.
func echo(size int, log *slog.Logger) kont.Eff[struct{}] {
	return secsess.Loop(0, func(served int) kont.Eff[kont.Either[int, struct{}]] {
		return secsess.RecvBind(size, func(msg []byte) kont.Eff[kont.Either[int, struct{}]] {
			log.Info("Received message", "msg", string(msg), "served", served)
			reply := make([]byte, 0, len(replyPrefix)+len(msg))
			reply = append(append(reply, replyPrefix...), msg...)
			return secsess.SendThen(reply, kont.Pure(kont.Left[int, struct{}](served+1)))
		})
	})
}

// runEcho drives echo on s one effect at a time and returns the error that
// stopped it. A receive whose readiness wait timed out is an idle client,
// not a failure: the same receive is issued again. idle > 0 caps how long
// the session may go without completing an effect; zero waits forever.
// Every other failure ends the session.
func runEcho(s *secsess.Session, size int, idle time.Duration, log *slog.Logger) error {
	_, susp := secsess.Step(echo(size, log))
	quiet := time.Now()
	for susp != nil {
		_, next, err := secsess.Advance(s, susp)
		if err == nil {
			susp = next
			quiet = time.Now()
			continue
		}
		if !idleRecv(susp, err) {
			return err
		}
		if idle > 0 && time.Since(quiet) >= idle {
			return fmt.Errorf("%w after %v: %w", errIdle, idle, err)
		}
	}
	return nil
}

// idleRecv reports whether err is a receive that found no input in time.
func idleRecv(susp *kont.Suspension[struct{}], err error) bool {
	if _, ok := susp.Op().(secsess.Recv); !ok {
		return false
	}
	return errors.Is(err, secsess.ErrWaitTimeout) && secsess.ClassOf(err) == secsess.ClassWantRead
}
