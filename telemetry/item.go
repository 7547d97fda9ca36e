// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry defines the item model shared by the pipeline, the
// filters and the receivers: one Item per accepted export request.
package telemetry // import "github.com/otlpsink/otlpsink/telemetry"

import (
	"fmt"
	"time"
)

// Signal identifies which OTLP signal an export request was decoded from.
type Signal int32

const (
	SignalTraces Signal = iota
	SignalLogs
	SignalMetrics
)

// String returns the lower-case signal name. It is also the prefix used in
// output file names.
func (s Signal) String() string {
	switch s {
	case SignalTraces:
		return "traces"
	case SignalLogs:
		return "logs"
	case SignalMetrics:
		return "metrics"
	}
	return ""
}

// ParseSignal is the inverse of Signal.String.
func ParseSignal(name string) (Signal, error) {
	switch name {
	case "traces":
		return SignalTraces, nil
	case "logs":
		return SignalLogs, nil
	case "metrics":
		return SignalMetrics, nil
	}
	return 0, fmt.Errorf("unknown signal %q", name)
}

// Item is one accepted export request on its way to the receivers. It is
// created by the pipeline, handed to every matching receiver and discarded
// after dispatch. Fields are never mutated after creation.
type Item struct {
	Signal Signal

	// Line is the entire request serialized as a single OTLP/JSON document
	// terminated by exactly one '\n'.
	Line []byte

	// IsError is the classifier verdict for the request.
	IsError bool

	// CapturedAt is the UTC acceptance time, millisecond resolution.
	CapturedAt time.Time
}

// NewItem builds an Item stamped with the current time. line must be a single
// JSON document terminated by '\n'.
func NewItem(signal Signal, line []byte, isError bool) Item {
	return Item{
		Signal:     signal,
		Line:       line,
		IsError:    isError,
		CapturedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}
