// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package filereceiver appends telemetry items to size-rotated NDJSON files,
// one receiver instance per (signal, suffix) pair.
package filereceiver // import "github.com/otlpsink/otlpsink/receiver/filereceiver"

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/otlpsink/otlpsink/telemetry"
)

// ErrLowDiskSpace is returned when the free space on the target volume is
// below the configured safety margin. The write is rejected without touching
// the file.
var ErrLowDiskSpace = errors.New("free disk space below safety margin")

// freeBytesFunc reports the free bytes on the volume containing path.
// Injected so tests can simulate a full disk.
type freeBytesFunc func(path string) (uint64, error)

func gopsutilFreeBytes(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// Receiver writes one NDJSON line per item to the current output file,
// rotating to a freshly named file once the configured size is reached.
// The rotation state (current file, tracked size) is owned exclusively by
// this instance.
type Receiver struct {
	cfg       Config
	signal    telemetry.Signal
	logger    *zap.Logger
	freeBytes freeBytesFunc

	mu          sync.Mutex
	file        *os.File
	path        string
	trackedSize int64
}

// New validates cfg, creates the output directory if needed and returns a
// receiver. The first output file is opened lazily on the first write.
func New(signal telemetry.Signal, cfg Config, logger *zap.Logger) (*Receiver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Receiver{
		cfg:       cfg,
		signal:    signal,
		logger:    logger,
		freeBytes: gopsutilFreeBytes,
	}, nil
}

// Write appends item.Line to the current output file. Concurrent calls are
// serialized; lines never interleave.
func (r *Receiver) Write(ctx context.Context, item telemetry.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil || r.trackedSize >= r.cfg.MaxFileSizeBytes {
		if err := r.rotateLocked(item.CapturedAt); err != nil {
			return err
		}
	}

	if r.cfg.MinFreeDiskBytes > 0 {
		free, err := r.freeBytes(r.cfg.Directory)
		switch {
		case err != nil:
			// A failing statfs must not block ingestion; attempt the write.
			r.logger.Debug("disk usage query failed", zap.Error(err))
		case free < r.cfg.MinFreeDiskBytes:
			return fmt.Errorf("%w: %d bytes free under %s", ErrLowDiskSpace, free, r.cfg.Directory)
		}
	}

	if err := r.appendWithRetry(ctx, item.Line); err != nil {
		return err
	}
	r.trackedSize += int64(len(item.Line))
	return nil
}

// appendWithRetry writes line to the current file, retrying transient
// failures (brief locks, sharing violations) a bounded number of times.
func (r *Receiver) appendWithRetry(ctx context.Context, line []byte) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = r.cfg.Retry.InitialInterval
	expBackoff.MaxInterval = r.cfg.Retry.MaxInterval
	expBackoff.MaxElapsedTime = 0

	written := 0
	op := func() error {
		n, err := r.file.Write(line[written:])
		written += n
		if err != nil {
			return fmt.Errorf("appending to %s: %w", r.path, err)
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(expBackoff, r.cfg.Retry.MaxRetries), ctx))
}

// Shutdown closes the current output file, if any.
func (r *Receiver) Shutdown(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if err != nil {
		return fmt.Errorf("closing %s: %w", r.path, err)
	}
	return nil
}
