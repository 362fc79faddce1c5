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
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/addressbook/pkg/telemetry"
)

// TestInstrument_StdoutExporter saves through the file backend with the
// stdout exporter installed and checks the exported span.
func TestInstrument_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "addressbook",
		Exporter:    telemetry.ExporterStdout,
		Output:      &buf,
	})
	require.NoError(t, err)

	f := NewFile(filepath.Join(t.TempDir(), "book.yaml"))
	require.NoError(t, f.Save(ctx, sampleSnapshot()))

	boom := errors.New("disk on fire")
	err = Instrument(ctx, "file", "load", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, `"Name":"file.save"`)
	assert.Contains(t, out, `"Name":"file.load"`)
	assert.Contains(t, out, "storage.backend")
	assert.Contains(t, out, "disk on fire")
}
