// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package filereceiver // import "github.com/otlpsink/otlpsink/receiver/filereceiver"

import (
	"errors"
	"strings"
	"time"
)

// Config defines one file receiver instance, bound to a single signal type
// and file-name suffix.
type Config struct {
	// Directory is the root for output files. Created if missing.
	Directory string `mapstructure:"directory"`

	// Suffix is the file-name suffix including the leading dot, for example
	// ".ndjson" or ".errors.ndjson".
	Suffix string `mapstructure:"suffix"`

	// MaxFileSizeBytes is the rotation threshold. Once the bytes appended to
	// the current file reach it, the next write opens a new file.
	MaxFileSizeBytes int64 `mapstructure:"max_file_size_bytes"`

	// MinFreeDiskBytes is the free-space safety margin on the target volume.
	// A write is rejected without touching the file when free space is below
	// it. Zero disables the guard.
	MinFreeDiskBytes uint64 `mapstructure:"min_free_disk_bytes"`

	// Retry bounds the retries of transient append failures.
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines the bounded exponential backoff applied to a failing
// append before the write is reported as failed.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries uint64 `mapstructure:"max_retries"`

	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration `mapstructure:"initial_interval"`

	// MaxInterval caps the delay between consecutive retries.
	MaxInterval time.Duration `mapstructure:"max_interval"`
}

// DefaultRetryConfig keeps retries short: the pipeline tolerates data loss
// under sustained failure, so a stuck write must not stall the dispatch loop.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     100 * time.Millisecond,
	}
}

func (cfg Config) Validate() error {
	if cfg.Directory == "" {
		return errors.New("directory must be set")
	}
	if !strings.HasPrefix(cfg.Suffix, ".") {
		return errors.New("suffix must start with '.'")
	}
	if cfg.MaxFileSizeBytes <= 0 {
		return errors.New("max_file_size_bytes must be positive")
	}
	if cfg.Retry.InitialInterval <= 0 || cfg.Retry.MaxInterval <= 0 {
		return errors.New("retry intervals must be positive")
	}
	return nil
}
