// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/secsess"
	"code.hybscloud.com/secsess/internal/metrics"
)

// failConn fails every operation definitively.
type failConn struct{}

var errBroken = errors.New("broken")

func (failConn) Connect() (int, error)     { return -1, errBroken }
func (failConn) Accept() (int, error)      { return -1, errBroken }
func (failConn) Shutdown() (int, error)    { return -1, errBroken }
func (failConn) Read([]byte) (int, error)  { return -1, errBroken }
func (failConn) Write([]byte) (int, error) { return -1, errBroken }
func (failConn) ReadFD() int               { return -1 }
func (failConn) WriteFD() int              { return -1 }

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	got := make(map[string]float64, len(families))
	for _, f := range families {
		require.Len(t, f.GetMetric(), 1)
		got[f.GetName()] = f.GetMetric()[0].GetCounter().GetValue()
	}
	return got
}

func TestRegister(t *testing.T) {
	r := secsess.NewRetrier(secsess.Budget{Wait: time.Millisecond, Attempts: 3})
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg, r.Stats()))

	got := gather(t, reg)
	assert.Len(t, got, 8)
	assert.Zero(t, got["secsess_operations_total"])

	_, err := r.Do(failConn{}, secsess.Connect{})
	require.Error(t, err)
	_, err = r.Do(failConn{}, secsess.Read{Buf: make([]byte, 1)})
	require.Error(t, err)

	got = gather(t, reg)
	assert.Equal(t, 2.0, got["secsess_operations_total"])
	assert.Equal(t, 2.0, got["secsess_attempts_total"])
	assert.Equal(t, 2.0, got["secsess_fatal_total"])
	assert.Zero(t, got["secsess_waits_total"])
}

func TestRegisterTwice(t *testing.T) {
	var stats secsess.Stats
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg, &stats))
	assert.Error(t, metrics.Register(reg, &stats))
}

func TestServerHandler(t *testing.T) {
	var stats secsess.Stats
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg, &stats))

	srv := httptest.NewServer(metrics.NewServer(":0", reg).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "secsess_operations_total 0")
}
