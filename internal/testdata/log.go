// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package testdata

import (
	"go.opentelemetry.io/collector/pdata/plog"
)

// GenerateLogs returns a request with count INFO records under one resource.
func GenerateLogs(count int) plog.Logs {
	ld := plog.NewLogs()
	initResource(ld.ResourceLogs().AppendEmpty().Resource())
	records := ld.ResourceLogs().At(0).ScopeLogs().AppendEmpty().LogRecords()
	records.EnsureCapacity(count)
	for i := 0; i < count; i++ {
		fillLogRecord(records.AppendEmpty(), plog.SeverityNumberInfo)
	}
	return ld
}

// GenerateLogsWithSeverity returns a request with a single record at the
// given severity number.
func GenerateLogsWithSeverity(severity plog.SeverityNumber) plog.Logs {
	ld := plog.NewLogs()
	initResource(ld.ResourceLogs().AppendEmpty().Resource())
	fillLogRecord(ld.ResourceLogs().At(0).ScopeLogs().AppendEmpty().LogRecords().AppendEmpty(), severity)
	return ld
}

// GenerateLogsExceptionAttributes returns a request whose single record is
// INFO level but carries the well-known exception attributes.
func GenerateLogsExceptionAttributes() plog.Logs {
	ld := GenerateLogs(1)
	attrs := ld.ResourceLogs().At(0).ScopeLogs().At(0).LogRecords().At(0).Attributes()
	attrs.PutStr("exception.type", "ValueError")
	attrs.PutStr("exception.message", "invalid literal")
	attrs.PutStr("exception.stacktrace", "frame 1\nframe 2")
	return ld
}

// GenerateLogsOneEmptyResourceLogs returns a partial request: one resource
// entry with no scopes or records beneath it.
func GenerateLogsOneEmptyResourceLogs() plog.Logs {
	ld := plog.NewLogs()
	ld.ResourceLogs().AppendEmpty()
	return ld
}

func fillLogRecord(lr plog.LogRecord, severity plog.SeverityNumber) {
	lr.SetTimestamp(logTimestamp)
	lr.SetSeverityNumber(severity)
	lr.SetSeverityText(severity.String())
	lr.Attributes().PutStr("app", "server")
	lr.Body().SetStr("something happened")
}
