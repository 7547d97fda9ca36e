// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package receiver defines the sink contract implemented by the file and
// stdout receivers.
package receiver // import "github.com/otlpsink/otlpsink/receiver"

import (
	"context"

	"github.com/otlpsink/otlpsink/telemetry"
)

// Receiver persists or displays telemetry items. Write is invoked by exactly
// one pipeline dispatch goroutine per registration, but implementations must
// still serialize internally so that one receiver instance can be shared.
type Receiver interface {
	// Write handles one item. The context carries the pipeline shutdown
	// signal; implementations should abandon slow retries once it is done.
	Write(ctx context.Context, item telemetry.Item) error

	// Shutdown flushes and releases resources. No Write calls follow it.
	Shutdown(ctx context.Context) error
}
