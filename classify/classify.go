// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

// Package classify decides whether a decoded export request carries error
// content. All functions are pure and tolerate empty or partially filled
// requests; a request that cannot be classified counts as non-error so that
// classification can never block ingestion.
package classify // import "github.com/otlpsink/otlpsink/classify"

import (
	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/collector/pdata/ptrace"
	semconv "go.opentelemetry.io/collector/semconv/v1.27.0"
)

// exceptionEventName is the span event name recorded by OTel SDKs when an
// exception is attached to a span.
const exceptionEventName = "exception"

// DefaultSeverityThreshold is the lower bound of the OTLP ERROR severity
// band (severity numbers 17-20).
const DefaultSeverityThreshold = plog.SeverityNumberError

// Traces reports whether any span in the request has an explicit error
// status or an exception event.
func Traces(td ptrace.Traces) bool {
	rss := td.ResourceSpans()
	for i := 0; i < rss.Len(); i++ {
		sss := rss.At(i).ScopeSpans()
		for j := 0; j < sss.Len(); j++ {
			spans := sss.At(j).Spans()
			for k := 0; k < spans.Len(); k++ {
				span := spans.At(k)
				if span.Status().Code() == ptrace.StatusCodeError {
					return true
				}
				events := span.Events()
				for l := 0; l < events.Len(); l++ {
					if events.At(l).Name() == exceptionEventName {
						return true
					}
				}
			}
		}
	}
	return false
}

// Logs reports whether any record has a severity number at or above
// minSeverity, or carries one of the well-known exception attributes
// regardless of severity.
func Logs(ld plog.Logs, minSeverity plog.SeverityNumber) bool {
	rls := ld.ResourceLogs()
	for i := 0; i < rls.Len(); i++ {
		sls := rls.At(i).ScopeLogs()
		for j := 0; j < sls.Len(); j++ {
			records := sls.At(j).LogRecords()
			for k := 0; k < records.Len(); k++ {
				lr := records.At(k)
				if lr.SeverityNumber() >= minSeverity {
					return true
				}
				if hasExceptionAttributes(lr) {
					return true
				}
			}
		}
	}
	return false
}

// Metrics never carry error content.
func Metrics(pmetric.Metrics) bool {
	return false
}

func hasExceptionAttributes(lr plog.LogRecord) bool {
	attrs := lr.Attributes()
	for _, key := range []string{
		semconv.AttributeExceptionType,
		semconv.AttributeExceptionMessage,
		semconv.AttributeExceptionStacktrace,
	} {
		if _, ok := attrs.Get(key); ok {
			return true
		}
	}
	return false
}
