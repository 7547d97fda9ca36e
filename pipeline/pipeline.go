// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline contains the ingestion orchestrator. Accept* classifies a
// decoded export request, serializes it to one NDJSON line and fans the
// resulting item out to every registered receiver whose filters accept it.
// Acceptance is decoupled from durability: receiver failures are reported to
// the health monitor, never to the caller.
package pipeline // import "github.com/otlpsink/otlpsink/pipeline"

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/otlpsink/otlpsink/classify"
	"github.com/otlpsink/otlpsink/filter"
	"github.com/otlpsink/otlpsink/health"
	"github.com/otlpsink/otlpsink/receiver"
	"github.com/otlpsink/otlpsink/receiver/filereceiver"
	"github.com/otlpsink/otlpsink/receiver/stdoutreceiver"
	"github.com/otlpsink/otlpsink/telemetry"
)

// ErrQueueFull marks items dropped because a receiver's dispatch queue was at
// capacity. Counted as a write failure.
var ErrQueueFull = errors.New("receiver queue full")

// ErrShutdown is returned by Register after Shutdown has started.
var ErrShutdown = errors.New("pipeline is shut down")

// registration pairs a receiver with its filters and the bounded queue that
// feeds its dispatch goroutine. One goroutine per registration keeps writes
// to a receiver strictly serialized while isolating receivers from each
// other: a slow receiver only fills its own queue.
type registration struct {
	recv    receiver.Receiver
	filters []filter.Filter
	queue   chan telemetry.Item
	done    chan struct{}
}

func (reg *registration) accepts(item telemetry.Item) bool {
	for _, f := range reg.filters {
		if !f.Accept(item) {
			return false
		}
	}
	return true
}

// Pipeline is the top-level ingestion entry point. Safe for concurrent use.
type Pipeline struct {
	cfg     Config
	logger  *zap.Logger
	monitor *health.Monitor

	// baseCtx is canceled when the shutdown grace window expires, aborting
	// in-flight receiver writes.
	baseCtx context.Context
	cancel  context.CancelFunc

	tracesMarshaler  ptrace.JSONMarshaler
	logsMarshaler    plog.JSONMarshaler
	metricsMarshaler pmetric.JSONMarshaler

	acceptedTraces  *atomic.Uint64
	acceptedLogs    *atomic.Uint64
	acceptedMetrics *atomic.Uint64

	// mu guards registrations and stopped, and orders enqueues against
	// queue closure during shutdown.
	mu            sync.RWMutex
	registrations []*registration
	stopped       bool
}

// New validates cfg and builds a pipeline with the standard registration
// set: for each signal one file receiver taking every item (.ndjson) and one
// taking only error items (.errors.ndjson), plus the optional console mirror.
// Further receivers may be added with Register.
func New(cfg Config, logger *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	monitor, err := health.NewMonitor(health.Config{
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		MaxErrorHistorySize:    cfg.MaxErrorHistorySize,
	}, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		cfg:             cfg,
		logger:          logger,
		monitor:         monitor,
		baseCtx:         ctx,
		cancel:          cancel,
		acceptedTraces:  atomic.NewUint64(0),
		acceptedLogs:    atomic.NewUint64(0),
		acceptedMetrics: atomic.NewUint64(0),
	}

	for _, signal := range []telemetry.Signal{telemetry.SignalTraces, telemetry.SignalLogs, telemetry.SignalMetrics} {
		all, err := p.newFileReceiver(signal, ".ndjson")
		if err != nil {
			return nil, err
		}
		if err := p.Register(all, filter.Signal(signal)); err != nil {
			return nil, err
		}

		errs, err := p.newFileReceiver(signal, ".errors.ndjson")
		if err != nil {
			return nil, err
		}
		if err := p.Register(errs, filter.Signal(signal), filter.ErrorsOnly()); err != nil {
			return nil, err
		}
	}

	if cfg.EnableStdoutMirror {
		var filters []filter.Filter
		if cfg.StdoutErrorsOnly {
			filters = append(filters, filter.ErrorsOnly())
		}
		if err := p.Register(stdoutreceiver.New(), filters...); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Pipeline) newFileReceiver(signal telemetry.Signal, suffix string) (*filereceiver.Receiver, error) {
	return filereceiver.New(signal, filereceiver.Config{
		Directory:        p.cfg.OutputDirectory,
		Suffix:           suffix,
		MaxFileSizeBytes: p.cfg.MaxFileSizeBytes,
		MinFreeDiskBytes: p.cfg.MinFreeDiskBytes,
		Retry:            filereceiver.DefaultRetryConfig(),
	}, p.logger)
}

// Register attaches recv to the fan-out with the given filters (conjunction
// semantics; no filters means every item) and starts its dispatch goroutine.
// Each receiver must be registered at most once.
func (p *Pipeline) Register(recv receiver.Receiver, filters ...filter.Filter) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrShutdown
	}
	reg := &registration{
		recv:    recv,
		filters: filters,
		queue:   make(chan telemetry.Item, p.cfg.QueueSize),
		done:    make(chan struct{}),
	}
	p.registrations = append(p.registrations, reg)
	go p.dispatch(reg)
	return nil
}

// AcceptTraces ingests one decoded trace export request.
func (p *Pipeline) AcceptTraces(ctx context.Context, td ptrace.Traces) {
	line, err := p.tracesMarshaler.MarshalTraces(td)
	p.accept(ctx, telemetry.SignalTraces, line, err, classify.Traces(td), p.acceptedTraces)
}

// AcceptLogs ingests one decoded logs export request.
func (p *Pipeline) AcceptLogs(ctx context.Context, ld plog.Logs) {
	line, err := p.logsMarshaler.MarshalLogs(ld)
	isError := classify.Logs(ld, plog.SeverityNumber(p.cfg.SeverityThreshold))
	p.accept(ctx, telemetry.SignalLogs, line, err, isError, p.acceptedLogs)
}

// AcceptMetrics ingests one decoded metrics export request.
func (p *Pipeline) AcceptMetrics(ctx context.Context, md pmetric.Metrics) {
	line, err := p.metricsMarshaler.MarshalMetrics(md)
	p.accept(ctx, telemetry.SignalMetrics, line, err, classify.Metrics(md), p.acceptedMetrics)
}

func (p *Pipeline) accept(ctx context.Context, signal telemetry.Signal, line []byte, marshalErr error, isError bool, counter *atomic.Uint64) {
	if ctx.Err() != nil {
		p.logger.Debug("dropping request: caller canceled", zap.Stringer("signal", signal))
		return
	}
	if marshalErr != nil {
		p.logger.Error("dropping request that failed to serialize",
			zap.Stringer("signal", signal), zap.Error(marshalErr))
		return
	}
	item := telemetry.NewItem(signal, append(line, '\n'), isError)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		p.logger.Debug("dropping request: pipeline shut down", zap.Stringer("signal", signal))
		return
	}
	counter.Inc()
	for _, reg := range p.registrations {
		if !reg.accepts(item) {
			continue
		}
		select {
		case reg.queue <- item:
		default:
			p.monitor.ReportFailure(fmt.Errorf("%w: %d items pending", ErrQueueFull, cap(reg.queue)))
			p.logger.Warn("dropping item: receiver queue full", zap.Stringer("signal", signal))
		}
	}
}

// dispatch is the single consumer goroutine of one registration. Every write
// outcome is reported to the health monitor, except for items abandoned after
// the shutdown grace window expired.
func (p *Pipeline) dispatch(reg *registration) {
	defer close(reg.done)
	for item := range reg.queue {
		if p.baseCtx.Err() != nil {
			continue
		}
		if err := reg.recv.Write(p.baseCtx, item); err != nil {
			p.monitor.ReportFailure(err)
			p.logger.Warn("receiver write failed",
				zap.Stringer("signal", item.Signal), zap.Error(err))
			continue
		}
		p.monitor.ReportSuccess()
	}
}

// Shutdown stops intake, lets queued items drain within the configured grace
// window (or until ctx is done, whichever is sooner), then closes all
// receivers. Safe to call more than once.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	regs := p.registrations
	for _, reg := range regs {
		close(reg.queue)
	}
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		for _, reg := range regs {
			<-reg.done
		}
		close(drained)
	}()

	timer := time.NewTimer(p.cfg.ShutdownGrace)
	defer timer.Stop()
	select {
	case <-drained:
	case <-timer.C:
		p.logger.Warn("shutdown grace expired, abandoning queued items")
		p.cancel()
		<-drained
	case <-ctx.Done():
		p.cancel()
		<-drained
	}
	p.cancel()

	var err error
	for _, reg := range regs {
		err = multierr.Append(err, reg.recv.Shutdown(ctx))
	}
	return err
}

// Stats is the read-only per-signal count of accepted requests.
type Stats struct {
	Traces  uint64 `json:"traces"`
	Logs    uint64 `json:"logs"`
	Metrics uint64 `json:"metrics"`
}

// Stats returns a snapshot of the accepted-request counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Traces:  p.acceptedTraces.Load(),
		Logs:    p.acceptedLogs.Load(),
		Metrics: p.acceptedMetrics.Load(),
	}
}

// Health returns a snapshot of the health monitor state.
func (p *Pipeline) Health() health.Snapshot {
	return p.monitor.Snapshot()
}
