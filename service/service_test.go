// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/otlpsink/otlpsink/health"
	"github.com/otlpsink/otlpsink/internal/testdata"
	"github.com/otlpsink/otlpsink/pipeline"
)

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Pipeline.OutputDirectory = t.TempDir()
	cfg.Pipeline.ShutdownGrace = 2 * time.Second
	cfg.DiagnosticsAddr = "" // tests hit the router directly
	return cfg
}

func TestServiceLifecycle(t *testing.T) {
	cfg := testConfig(t)
	cfg.DiagnosticsAddr = "localhost:0"
	svc, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Shutdown(context.Background()))
}

func TestHealthzHealthy(t *testing.T) {
	svc, err := New(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	newRouter(svc.Pipeline()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var snap health.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.Contains(t, rr.Body.String(), `"healthy"`)

	require.NoError(t, svc.Shutdown(context.Background()))
}

func TestHealthzDegraded(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.MaxConsecutiveFailures = 1
	cfg.Pipeline.MinFreeDiskBytes = math.MaxUint64
	svc, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	svc.Pipeline().AcceptTraces(context.Background(), testdata.GenerateTraces(1))
	require.NoError(t, svc.Pipeline().Shutdown(context.Background()))

	rr := httptest.NewRecorder()
	newRouter(svc.Pipeline()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"degraded"`)
}

func TestStatz(t *testing.T) {
	svc, err := New(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	svc.Pipeline().AcceptLogs(context.Background(), testdata.GenerateLogs(1))
	svc.Pipeline().AcceptMetrics(context.Background(), testdata.GenerateMetrics(1))
	require.NoError(t, svc.Pipeline().Shutdown(context.Background()))

	rr := httptest.NewRecorder()
	newRouter(svc.Pipeline()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/statz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var stats pipeline.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, pipeline.Stats{Logs: 1, Metrics: 1}, stats)
}

func TestStatzRejectsOtherMethods(t *testing.T) {
	svc, err := New(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Shutdown(context.Background())) }()

	rr := httptest.NewRecorder()
	newRouter(svc.Pipeline()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/statz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
