// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package health tracks the write-path health of the pipeline. Receiver
// outcomes feed a consecutive-failure counter that drives a two-state
// machine: HEALTHY and DEGRADED. The counter is global across receivers;
// failures are not attributed to an individual receiver.
package health // import "github.com/otlpsink/otlpsink/health"

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status is the write-path health state.
type Status int32

const (
	StatusHealthy Status = iota
	StatusDegraded
)

func (s Status) String() string {
	if s == StatusDegraded {
		return "degraded"
	}
	return "healthy"
}

// MarshalJSON encodes the status as its lower-case name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name produced by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "healthy":
		*s = StatusHealthy
	case "degraded":
		*s = StatusDegraded
	default:
		return fmt.Errorf("unknown health status %q", name)
	}
	return nil
}

// Config holds the monitor thresholds.
type Config struct {
	// MaxConsecutiveFailures is the number of consecutive write failures at
	// which the status flips to DEGRADED.
	MaxConsecutiveFailures int `mapstructure:"max_consecutive_failures"`

	// MaxErrorHistorySize is the capacity of the recent-error ring.
	MaxErrorHistorySize int `mapstructure:"max_error_history_size"`
}

func (cfg Config) Validate() error {
	if cfg.MaxConsecutiveFailures < 1 {
		return errors.New("max_consecutive_failures must be at least 1")
	}
	if cfg.MaxErrorHistorySize < 1 {
		return errors.New("max_error_history_size must be at least 1")
	}
	return nil
}

// Snapshot is a point-in-time read-only view of the monitor, exposed to
// diagnostics collaborators.
type Snapshot struct {
	Status              Status   `json:"status"`
	ConsecutiveFailures int      `json:"consecutive_failures"`
	RecentErrors        []string `json:"recent_errors"`
}

// Monitor is the process-wide health state machine. Safe for concurrent use.
type Monitor struct {
	logger    *zap.Logger
	threshold int

	mu                  sync.Mutex
	status              Status
	consecutiveFailures int
	recent              *errorRing
}

// NewMonitor validates cfg and returns a monitor in the HEALTHY state.
func NewMonitor(cfg Config, logger *zap.Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Monitor{
		logger:    logger,
		threshold: cfg.MaxConsecutiveFailures,
		recent:    newErrorRing(cfg.MaxErrorHistorySize),
	}, nil
}

// ReportSuccess records one successful receiver write. Any success resets the
// failure counter and, if degraded, restores HEALTHY immediately.
func (m *Monitor) ReportSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveFailures = 0
	if m.status == StatusDegraded {
		m.status = StatusHealthy
		m.logger.Info("write path recovered")
	}
}

// ReportFailure records one failed receiver write.
func (m *Monitor) ReportFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveFailures++
	m.recent.push(fmt.Sprintf("%s %s", time.Now().UTC().Format(time.RFC3339), err))
	if m.status == StatusHealthy && m.consecutiveFailures >= m.threshold {
		m.status = StatusDegraded
		m.logger.Warn("write path degraded",
			zap.Int("consecutive_failures", m.consecutiveFailures),
			zap.Error(err))
	}
}

// Snapshot returns a copy of the current state. Recent errors are ordered
// oldest first.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Status:              m.status,
		ConsecutiveFailures: m.consecutiveFailures,
		RecentErrors:        m.recent.items(),
	}
}
