// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline // import "github.com/otlpsink/otlpsink/pipeline"

import (
	"errors"
	"time"

	"go.opentelemetry.io/collector/pdata/plog"
)

// Config defines the standard pipeline: per-signal NDJSON files, independently
// rotated error-only files and an optional console mirror.
type Config struct {
	// OutputDirectory is the root directory for all file receivers.
	OutputDirectory string `mapstructure:"output_directory"`

	// MaxFileSizeBytes is the per-file rotation threshold.
	MaxFileSizeBytes int64 `mapstructure:"max_file_size_bytes"`

	// MaxConsecutiveFailures is the health degrade threshold.
	MaxConsecutiveFailures int `mapstructure:"max_consecutive_failures"`

	// MaxErrorHistorySize is the capacity of the recent-error ring.
	MaxErrorHistorySize int `mapstructure:"max_error_history_size"`

	// EnableStdoutMirror also prints every accepted item to the console.
	EnableStdoutMirror bool `mapstructure:"enable_stdout_mirror"`

	// StdoutErrorsOnly restricts the console mirror to error items.
	StdoutErrorsOnly bool `mapstructure:"stdout_errors_only"`

	// SeverityThreshold is the log severity number at which a record counts
	// as an error. Defaults to 17, the bottom of the OTLP ERROR band.
	SeverityThreshold int32 `mapstructure:"severity_threshold"`

	// MinFreeDiskBytes is the free-space safety margin for file receivers.
	// Zero disables the disk guard.
	MinFreeDiskBytes uint64 `mapstructure:"min_free_disk_bytes"`

	// QueueSize is the per-receiver dispatch queue capacity. Items are
	// dropped, and counted as write failures, when a receiver falls this far
	// behind.
	QueueSize int `mapstructure:"queue_size"`

	// ShutdownGrace bounds how long Shutdown waits for queued items to drain
	// before aborting in-flight writes.
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() Config {
	return Config{
		OutputDirectory:        "data",
		MaxFileSizeBytes:       64 << 20,
		MaxConsecutiveFailures: 10,
		MaxErrorHistorySize:    32,
		SeverityThreshold:      int32(plog.SeverityNumberError),
		QueueSize:              1024,
		ShutdownGrace:          5 * time.Second,
	}
}

func (cfg Config) Validate() error {
	if cfg.OutputDirectory == "" {
		return errors.New("output_directory must be set")
	}
	if cfg.MaxFileSizeBytes <= 0 {
		return errors.New("max_file_size_bytes must be positive")
	}
	if cfg.MaxConsecutiveFailures < 1 {
		return errors.New("max_consecutive_failures must be at least 1")
	}
	if cfg.MaxErrorHistorySize < 1 {
		return errors.New("max_error_history_size must be at least 1")
	}
	if cfg.SeverityThreshold < int32(plog.SeverityNumberTrace) || cfg.SeverityThreshold > int32(plog.SeverityNumberFatal4) {
		return errors.New("severity_threshold must be a valid severity number (1-24)")
	}
	if cfg.QueueSize < 1 {
		return errors.New("queue_size must be at least 1")
	}
	if cfg.ShutdownGrace <= 0 {
		return errors.New("shutdown_grace must be positive")
	}
	return nil
}
