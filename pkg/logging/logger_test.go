// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelDebug.toSlogLevel())
	assert.Equal(t, slog.LevelInfo, LevelInfo.toSlogLevel())
	assert.Equal(t, slog.LevelWarn, LevelWarn.toSlogLevel())
	assert.Equal(t, slog.LevelError, LevelError.toSlogLevel())
	assert.Equal(t, slog.LevelInfo, Level(99).toSlogLevel(), "unknown defaults to info")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{" error ", LevelError, true},
		{"loud", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

// =============================================================================
// Logger Tests
// =============================================================================

func TestNew_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Service: "test", Output: &buf})
	defer logger.Close()

	logger.Debug("hidden")
	logger.Info("person added", "key", "John_Lennon")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "person added")
	assert.Contains(t, out, "key=John_Lennon")
	assert.Contains(t, out, "service=test")
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{JSON: true, Output: &buf})
	defer logger.Close()

	logger.Warn("slow save", "ms", 12)
	assert.Contains(t, buf.String(), `"msg":"slow save"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestNew_WithLogDir(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	logger := New(Config{LogDir: dir, Service: "cli", Output: &buf})

	logger.Error("save failed", "error", "disk full")
	require.NoError(t, logger.Close())

	name := "cli_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"save failed"`)
	assert.Contains(t, buf.String(), "save failed", "console still receives entries")
}

func TestNew_WithLogDir_NoService(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Quiet: true})
	logger.Info("hello")
	require.NoError(t, logger.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "addressbook_"))
}

func TestNew_WithLogDir_InvalidPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	logger := New(Config{LogDir: filepath.Join(blocker, "logs"), Quiet: true})
	assert.Nil(t, logger.file)
	logger.Info("still works")
	assert.NoError(t, logger.Close())
}

func TestDefault(t *testing.T) {
	logger := Default()
	defer logger.Close()

	ctx := t.Context()
	assert.False(t, logger.Slog().Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.Slog().Enabled(ctx, slog.LevelInfo))
	assert.Nil(t, logger.file)
	assert.Equal(t, "addressbook", logger.config.Service)
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("dropped")
	assert.False(t, logger.Slog().Enabled(t.Context(), slog.LevelError))
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	defer logger.Close()

	child := logger.With("book", "contacts.yaml")
	child.Info("loaded")
	assert.Contains(t, buf.String(), "book=contacts.yaml")
}

func TestLogger_CloseTwice(t *testing.T) {
	logger := New(Config{LogDir: t.TempDir(), Quiet: true})
	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".addressbook"), expandPath("~/.addressbook"))
	assert.Equal(t, "/var/log", expandPath("/var/log"))
	assert.Equal(t, "relative", expandPath("relative"))
}
