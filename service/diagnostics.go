// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package service // import "github.com/otlpsink/otlpsink/service"

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/otlpsink/otlpsink/health"
	"github.com/otlpsink/otlpsink/pipeline"
)

// newRouter exposes the read-only query contract: health snapshot and
// per-signal statistics. Diagnostics collaborators never mutate state.
func newRouter(p *pipeline.Pipeline) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", handleHealth(p)).Methods(http.MethodGet)
	r.HandleFunc("/statz", handleStats(p)).Methods(http.MethodGet)
	return r
}

func handleHealth(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		snap := p.Health()
		code := http.StatusOK
		if snap.Status == health.StatusDegraded {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, snap)
	}
}

func handleStats(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, p.Stats())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
