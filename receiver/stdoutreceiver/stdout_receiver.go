// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package stdoutreceiver mirrors telemetry items to the console, color coded
// by signal type with errors always highlighted.
package stdoutreceiver // import "github.com/otlpsink/otlpsink/receiver/stdoutreceiver"

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/otlpsink/otlpsink/telemetry"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Receiver writes items as "[capturedAt][SIGNAL] line" under a mutex so
// concurrent writers never interleave partial lines.
type Receiver struct {
	mu  sync.Mutex
	out io.Writer

	errorColor   *color.Color
	signalColors map[telemetry.Signal]*color.Color
}

// New returns a receiver writing to os.Stdout.
func New() *Receiver {
	return newReceiver(os.Stdout)
}

func newReceiver(out io.Writer) *Receiver {
	return &Receiver{
		out:        out,
		errorColor: color.New(color.FgRed, color.Bold),
		signalColors: map[telemetry.Signal]*color.Color{
			telemetry.SignalTraces:  color.New(color.FgCyan),
			telemetry.SignalLogs:    color.New(color.FgGreen),
			telemetry.SignalMetrics: color.New(color.FgMagenta),
		},
	}
}

func (r *Receiver) Write(_ context.Context, item telemetry.Item) error {
	text := fmt.Sprintf("[%s][%s] %s",
		item.CapturedAt.Format(timestampLayout),
		strings.ToUpper(item.Signal.String()),
		strings.TrimRight(string(item.Line), "\n"))

	c := r.signalColors[item.Signal]
	if item.IsError {
		c = r.errorColor
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := c.Fprintln(r.out, text); err != nil {
		return fmt.Errorf("writing to console: %w", err)
	}
	return nil
}

func (r *Receiver) Shutdown(context.Context) error {
	return nil
}
