// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package testdata

import (
	"go.opentelemetry.io/collector/pdata/ptrace"
)

// GenerateTraces returns a request with spanCount ordinary spans under one
// resource. None of the spans carries error content.
func GenerateTraces(spanCount int) ptrace.Traces {
	td := ptrace.NewTraces()
	initResource(td.ResourceSpans().AppendEmpty().Resource())
	spans := td.ResourceSpans().At(0).ScopeSpans().AppendEmpty().Spans()
	spans.EnsureCapacity(spanCount)
	for i := 0; i < spanCount; i++ {
		fillSpan(spans.AppendEmpty())
	}
	return td
}

// GenerateTracesOneErrorSpan returns a request with two spans, the second of
// which has an explicit error status.
func GenerateTracesOneErrorSpan() ptrace.Traces {
	td := GenerateTraces(2)
	span := td.ResourceSpans().At(0).ScopeSpans().At(0).Spans().At(1)
	span.Status().SetCode(ptrace.StatusCodeError)
	span.Status().SetMessage("operation failed")
	return td
}

// GenerateTracesExceptionEvent returns a request whose single span has an
// event named "exception" but an unset status code.
func GenerateTracesExceptionEvent() ptrace.Traces {
	td := GenerateTraces(1)
	span := td.ResourceSpans().At(0).ScopeSpans().At(0).Spans().At(0)
	ev := span.Events().AppendEmpty()
	ev.SetTimestamp(spanEventTimestamp)
	ev.SetName("exception")
	ev.Attributes().PutStr("exception.type", "ArithmeticError")
	return td
}

// GenerateTracesOneEmptyResourceSpans returns a partial request: one resource
// entry with no scopes or spans beneath it.
func GenerateTracesOneEmptyResourceSpans() ptrace.Traces {
	td := ptrace.NewTraces()
	td.ResourceSpans().AppendEmpty()
	return td
}

func fillSpan(span ptrace.Span) {
	span.SetName("operationA")
	span.SetStartTimestamp(spanStartTimestamp)
	span.SetEndTimestamp(spanEndTimestamp)
	span.SetTraceID([16]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10})
	span.SetSpanID([8]byte{0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18})
	span.Attributes().PutStr("span-attr", "span-attr-val")
}
