// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.uber.org/zap"

	"github.com/otlpsink/otlpsink/pipeline"
	"github.com/otlpsink/otlpsink/telemetry"
)

// maxLineBytes bounds a single replayed NDJSON line.
const maxLineBytes = 16 << 20

func newReplayCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file>...",
		Short: "Feed previously persisted NDJSON files back through a pipeline",
		Long: "Replay reads files written by this program, one OTLP/JSON export request per\n" +
			"line, and re-ingests each request. The signal type is inferred from the file\n" +
			"name prefix (traces., logs. or metrics.).",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), *configPath, args)
		},
	}
}

func runReplay(ctx context.Context, configPath string, paths []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(cfg.Pipeline, logger)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := replayFile(ctx, p, logger, path); err != nil {
			return err
		}
	}
	return p.Shutdown(ctx)
}

func replayFile(ctx context.Context, p *pipeline.Pipeline, logger *zap.Logger, path string) error {
	base := filepath.Base(path)
	prefix, _, found := strings.Cut(base, ".")
	if !found {
		return fmt.Errorf("cannot infer signal type from file name %q", base)
	}
	signal, err := telemetry.ParseSignal(prefix)
	if err != nil {
		return fmt.Errorf("cannot infer signal type from file name %q: %w", base, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var (
		tracesUnmarshaler  ptrace.JSONUnmarshaler
		logsUnmarshaler    plog.JSONUnmarshaler
		metricsUnmarshaler pmetric.JSONUnmarshaler
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		switch signal {
		case telemetry.SignalTraces:
			td, err := tracesUnmarshaler.UnmarshalTraces(line)
			if err != nil {
				logger.Warn("skipping malformed line", zap.String("file", base), zap.Int("line", lineNo), zap.Error(err))
				continue
			}
			p.AcceptTraces(ctx, td)
		case telemetry.SignalLogs:
			ld, err := logsUnmarshaler.UnmarshalLogs(line)
			if err != nil {
				logger.Warn("skipping malformed line", zap.String("file", base), zap.Int("line", lineNo), zap.Error(err))
				continue
			}
			p.AcceptLogs(ctx, ld)
		case telemetry.SignalMetrics:
			md, err := metricsUnmarshaler.UnmarshalMetrics(line)
			if err != nil {
				logger.Warn("skipping malformed line", zap.String("file", base), zap.Int("line", lineNo), zap.Error(err))
				continue
			}
			p.AcceptMetrics(ctx, md)
		}
	}
	return scanner.Err()
}
