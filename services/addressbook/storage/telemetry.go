// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/addressbook/pkg/telemetry"
)

// instrumentationName names the tracer and meter for storage operations.
const instrumentationName = "addressbook.storage"

var meter = otel.Meter(instrumentationName)

var (
	opLatency metric.Float64Histogram
	opTotal   metric.Int64Counter
	opBytes   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		opLatency, err = meter.Float64Histogram(
			"addressbook_storage_duration_seconds",
			metric.WithDescription("Duration of storage load and save operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		opTotal, err = meter.Int64Counter(
			"addressbook_storage_operations_total",
			metric.WithDescription("Total number of storage operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		opBytes, err = meter.Int64Histogram(
			"addressbook_storage_bytes",
			metric.WithDescription("Encoded snapshot size per operation"),
			metric.WithUnit("By"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// Instrument runs fn inside a span named "<backend>.<operation>" and records
// duration, count and encoded size. fn returns the number of bytes it read
// or wrote.
//
// Backends outside this package (storage/badger) use it too, so every
// backend reports under the same instrument names.
func Instrument(ctx context.Context, backend, operation string, fn func(ctx context.Context) (int, error)) error {
	ctx, span := telemetry.StartSpan(ctx, instrumentationName, backend+"."+operation,
		trace.WithAttributes(
			attribute.String("storage.backend", backend),
			attribute.String("storage.operation", operation),
		),
	)
	defer span.End()

	start := time.Now()
	n, err := fn(ctx)

	span.SetAttributes(attribute.Int("storage.bytes", n))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if initMetrics() == nil {
		attrs := metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("operation", operation),
			attribute.Bool("success", err == nil),
		)
		opLatency.Record(ctx, time.Since(start).Seconds(), attrs)
		opTotal.Add(ctx, 1, attrs)
		opBytes.Record(ctx, int64(n), attrs)
	}
	return err
}
