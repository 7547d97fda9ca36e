// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package filter provides the predicates that gate whether an item reaches a
// receiver. When several filters are attached to one receiver the pipeline
// requires all of them to accept the item.
package filter // import "github.com/otlpsink/otlpsink/filter"

import (
	"go.uber.org/atomic"

	"github.com/otlpsink/otlpsink/telemetry"
)

// Filter decides whether an item is delivered to a receiver. Implementations
// must be safe for concurrent use.
type Filter interface {
	Accept(item telemetry.Item) bool
}

// Func adapts a plain function to the Filter interface.
type Func func(telemetry.Item) bool

func (f Func) Accept(item telemetry.Item) bool {
	return f(item)
}

// AllSignals accepts every item.
func AllSignals() Filter {
	return Func(func(telemetry.Item) bool { return true })
}

// ErrorsOnly accepts only items the classifier marked as errors.
func ErrorsOnly() Filter {
	return Func(func(item telemetry.Item) bool { return item.IsError })
}

// Signal accepts only items of the given signal type.
func Signal(signal telemetry.Signal) Filter {
	return Func(func(item telemetry.Item) bool { return item.Signal == signal })
}

type samplingFilter struct {
	n    uint64
	seen *atomic.Uint64
}

// Sampling accepts one out of every n items, starting with the first.
// n <= 1 accepts everything.
func Sampling(n uint64) Filter {
	if n <= 1 {
		return AllSignals()
	}
	return &samplingFilter{n: n, seen: atomic.NewUint64(0)}
}

func (f *samplingFilter) Accept(telemetry.Item) bool {
	return (f.seen.Inc()-1)%f.n == 0
}
