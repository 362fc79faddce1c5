// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry installs the OpenTelemetry SDK for the address book
// tools.
//
// Library packages only use the otel API (otel.Tracer, otel.Meter). Until
// Init installs a provider those calls are no-ops; the exporter decides
// where spans and metrics end up.
//
// # Exporters
//
//   - "none": nothing is installed.
//   - "stdout": spans and metrics are written as JSON to Config.Output.
//   - "prometheus": metrics are collected by a Prometheus registry and
//     written in text exposition format to Config.Output on shutdown,
//     together with the process-wide client_golang metrics. There is no
//     scrape endpoint; a CLI run is too short to be scraped.
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.Config{
//	    ServiceName: "addressbook",
//	    Exporter:    telemetry.ExporterStdout,
//	    Output:      os.Stderr,
//	})
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
// # Thread Safety
//
// Init replaces the global providers and should be called once at startup.
// Everything else is safe for concurrent use.
package telemetry
