// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package filereceiver // import "github.com/otlpsink/otlpsink/receiver/filereceiver"

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const rotationTimeLayout = "20060102_150405"

// rotateLocked closes the current file and opens a freshly named one,
// resetting the tracked size. Caller holds r.mu.
func (r *Receiver) rotateLocked(ts time.Time) error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			r.logger.Warn("closing rotated file", zap.String("path", r.path), zap.Error(err))
		}
		r.file = nil
	}

	path, err := r.mintPathLocked(ts)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	r.file = f
	r.path = path
	r.trackedSize = 0
	r.logger.Debug("opened output file", zap.String("path", path))
	return nil
}

// mintPathLocked picks the first unused name of the form
// {signal}.{yyyyMMdd_HHmmss}[_fff].{suffix}. The millisecond component, and
// a numeric one after it, are only added when the shorter name collides with
// an existing file. Caller holds r.mu.
func (r *Receiver) mintPathLocked(ts time.Time) (string, error) {
	seconds := r.signal.String() + "." + ts.Format(rotationTimeLayout)
	millis := fmt.Sprintf("%s_%03d", seconds, ts.Nanosecond()/int(time.Millisecond))

	candidates := []string{seconds, millis}
	for i := 2; i <= 64; i++ {
		candidates = append(candidates, fmt.Sprintf("%s_%d", millis, i))
	}
	for _, name := range candidates {
		path := filepath.Join(r.cfg.Directory, name+r.cfg.Suffix)
		if path == r.path {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no unused %s%s file name under %s", r.signal, r.cfg.Suffix, r.cfg.Directory)
}
