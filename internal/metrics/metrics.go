// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports session retry counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"code.hybscloud.com/secsess"
)

const namespace = "secsess"

// Register exposes the counters of stats on reg.
func Register(reg prometheus.Registerer, stats *secsess.Stats) error {
	counters := []struct {
		name string
		help string
		load func(secsess.StatsSnapshot) uint64
	}{
		{"operations_total", "Retried session operations started.", func(s secsess.StatsSnapshot) uint64 { return s.Ops }},
		{"attempts_total", "Primitive invocations.", func(s secsess.StatsSnapshot) uint64 { return s.Attempts }},
		{"waits_total", "Readiness waits performed.", func(s secsess.StatsSnapshot) uint64 { return s.Waits }},
		{"wait_timeouts_total", "Readiness waits that did not report ready.", func(s secsess.StatsSnapshot) uint64 { return s.Timeouts }},
		{"wait_errors_total", "Readiness waits that failed with an error.", func(s secsess.StatsSnapshot) uint64 { return s.WaitErrors }},
		{"exhausted_total", "Operations that spent their attempt budget.", func(s secsess.StatsSnapshot) uint64 { return s.Exhausted }},
		{"fatal_total", "Operations that failed definitively.", func(s secsess.StatsSnapshot) uint64 { return s.Fatal }},
		{"peer_closed_total", "Operations that observed orderly peer closure.", func(s secsess.StatsSnapshot) uint64 { return s.Closed }},
	}
	var errs []error
	for _, c := range counters {
		load := c.load
		errs = append(errs, reg.Register(prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      c.name,
				Help:      c.help,
			},
			func() float64 { return float64(load(stats.Snapshot())) },
		)))
	}
	return errors.Join(errs...)
}

// Server serves /metrics over HTTP.
type Server struct {
	server *http.Server
}

// NewServer creates a metrics server on addr backed by g.
func NewServer(addr string, g prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return &Server{server: &http.Server{Addr: addr, Handler: mux}}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Stop is called. It returns nil after a clean stop.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
