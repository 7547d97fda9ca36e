// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package service hosts a pipeline for the lifetime of the process and
// exposes its health and statistics to diagnostics collaborators over HTTP.
package service // import "github.com/otlpsink/otlpsink/service"

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/otlpsink/otlpsink/pipeline"
)

// Config holds the service configuration.
type Config struct {
	Pipeline pipeline.Config `mapstructure:"pipeline"`

	// DiagnosticsAddr is the listen address of the read-only diagnostics
	// endpoint, for example "localhost:13133". Empty disables it.
	DiagnosticsAddr string `mapstructure:"diagnostics_addr"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Pipeline:        pipeline.DefaultConfig(),
		DiagnosticsAddr: "localhost:13133",
	}
}

// Service owns a pipeline and the diagnostics HTTP server.
type Service struct {
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
	server   *http.Server
}

// New builds the pipeline and, when configured, the diagnostics server.
func New(cfg Config, logger *zap.Logger) (*Service, error) {
	p, err := pipeline.New(cfg.Pipeline, logger)
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}
	s := &Service{logger: logger, pipeline: p}
	if cfg.DiagnosticsAddr != "" {
		s.server = &http.Server{
			Addr:              cfg.DiagnosticsAddr,
			Handler:           newRouter(p),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return s, nil
}

// Pipeline returns the hosted pipeline so callers can feed it decoded
// export requests.
func (s *Service) Pipeline() *pipeline.Pipeline {
	return s.pipeline
}

// Start begins serving diagnostics. The pipeline itself accepts writes from
// construction on.
func (s *Service) Start(context.Context) error {
	if s.server == nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("diagnostics listener: %w", err)
	}
	s.logger.Info("diagnostics endpoint started", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("diagnostics server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the diagnostics server and drains the pipeline.
func (s *Service) Shutdown(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = multierr.Append(err, s.server.Shutdown(ctx))
	}
	return multierr.Append(err, s.pipeline.Shutdown(ctx))
}
