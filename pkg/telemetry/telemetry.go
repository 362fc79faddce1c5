// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterNone       = "none"
	ExporterStdout     = "stdout"
	ExporterPrometheus = "prometheus"
)

var (
	// ErrNilContext is returned by Init when ctx is nil.
	ErrNilContext = errors.New("context must not be nil")

	// ErrUnknownExporter is returned by Init for an unsupported exporter.
	ErrUnknownExporter = errors.New("unknown exporter type")
)

// Config controls which exporter Init installs.
type Config struct {
	// ServiceName identifies this service in traces and metrics.
	ServiceName string

	// ServiceVersion is the version string for this service.
	ServiceVersion string

	// Exporter is "none", "stdout" or "prometheus". Empty means "none".
	Exporter string

	// Output receives exporter output. Defaults to os.Stderr so it never
	// mixes with command output.
	Output io.Writer
}

// DefaultConfig returns a config that installs nothing.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "addressbook",
		ServiceVersion: "dev",
		Exporter:       ExporterNone,
	}
}

// Init installs the global TracerProvider and MeterProvider for cfg.
//
// # Inputs
//
//   - ctx: Context for initialization.
//   - cfg: Telemetry configuration.
//
// # Outputs
//
//   - shutdown: Flushes and stops the providers. Never nil on success and
//     must be called.
//   - error: ErrNilContext, ErrUnknownExporter, or an exporter failure.
//
// # Thread Safety
//
// Call once at application startup.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	switch cfg.Exporter {
	case "", ExporterNone:
		return shutdown, nil

	case ExporterStdout:
		spanExporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
		tp := trace.NewTracerProvider(
			trace.WithBatcher(spanExporter),
			trace.WithResource(res),
			trace.WithSampler(trace.AlwaysSample()),
		)

		metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		mp := metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(metric.NewPeriodicReader(metricExporter)),
		)

		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown, mp.Shutdown)
		return shutdown, nil

	case ExporterPrometheus:
		registry := prometheus.NewRegistry()
		exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		mp := metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(exporter),
		)

		otel.SetMeterProvider(mp)
		gatherers := prometheus.Gatherers{registry, prometheus.DefaultGatherer}
		shutdownFuncs = append(shutdownFuncs,
			func(context.Context) error { return WriteMetrics(out, gatherers) },
			mp.Shutdown,
		)
		return shutdown, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}
}

// WriteMetrics writes everything g gathers in Prometheus text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
