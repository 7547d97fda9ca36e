// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package testdata

import (
	"go.opentelemetry.io/collector/pdata/pmetric"
)

// GenerateMetrics returns a request with count gauge metrics under one
// resource, one data point each.
func GenerateMetrics(count int) pmetric.Metrics {
	md := pmetric.NewMetrics()
	initResource(md.ResourceMetrics().AppendEmpty().Resource())
	metrics := md.ResourceMetrics().At(0).ScopeMetrics().AppendEmpty().Metrics()
	metrics.EnsureCapacity(count)
	for i := 0; i < count; i++ {
		m := metrics.AppendEmpty()
		m.SetName("gauge-double")
		m.SetUnit("1")
		dp := m.SetEmptyGauge().DataPoints().AppendEmpty()
		dp.SetTimestamp(metricTimestamp)
		dp.SetDoubleValue(123.456)
	}
	return md
}

// GenerateMetricsOneEmptyResourceMetrics returns a partial request: one
// resource entry with no scopes or metrics beneath it.
func GenerateMetricsOneEmptyResourceMetrics() pmetric.Metrics {
	md := pmetric.NewMetrics()
	md.ResourceMetrics().AppendEmpty()
	return md
}
