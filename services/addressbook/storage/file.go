// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package storage provides addressbook.Storage backends.

  - File: one serialized snapshot in a named file (YAML by default).
  - Memory: an encoded snapshot held in process, for tests and scratch books.

The BadgerDB backend lives in the badger subpackage.

All backends store the whole book at once. There is no incremental write and
no recovery from a failed write beyond what the backend itself guarantees:
File replaces the target through a temp file and rename, so a crash leaves
either the old or the new snapshot on disk.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/AleutianAI/addressbook/pkg/telemetry"
	"github.com/AleutianAI/addressbook/services/addressbook"
)

// DefaultFilename is the file name used when the configuration names none.
const DefaultFilename = "addressbook.yaml"

// File stores a snapshot in a single named file.
//
// # Thread Safety
//
// File uses a mutex so concurrent Load and Save calls on the same instance
// do not interleave. Separate instances pointing at the same path are not
// coordinated.
type File struct {
	path   string
	codec  Codec
	logger *slog.Logger

	mu sync.RWMutex
}

// FileOption configures a File.
type FileOption func(f *File)

// WithCodec sets the serialization format. Default: YAML.
func WithCodec(c Codec) FileOption {
	return func(f *File) {
		if c != nil {
			f.codec = c
		}
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) FileOption {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFile creates a file backend for path. The file is not touched until
// Load or Save is called.
func NewFile(path string, opts ...FileOption) *File {
	f := &File{
		path:   path,
		codec:  YAML,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Load reads and decodes the file.
//
// # Outputs
//
//   - *addressbook.Snapshot: The stored snapshot, or nil if the file does
//     not exist.
//   - error: Non-nil if the file exists but cannot be read or decoded.
func (f *File) Load(ctx context.Context) (*addressbook.Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var snap *addressbook.Snapshot
	err := Instrument(ctx, "file", "load", func(ctx context.Context) (int, error) {
		data, err := os.ReadFile(f.path)
		if errors.Is(err, fs.ErrNotExist) {
			telemetry.LoggerWithTrace(ctx, f.logger).Debug("storage file absent", slog.String("path", f.path))
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", f.path, err)
		}

		snap = &addressbook.Snapshot{}
		if err := f.codec.Unmarshal(data, snap); err != nil {
			return len(data), fmt.Errorf("decode %s as %s: %w", f.path, f.codec.Name(), err)
		}
		return len(data), nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Save encodes snap and replaces the file with it.
//
// The data is written to "<path>.tmp" and renamed over the target. The
// parent directory is created if needed.
func (f *File) Save(ctx context.Context, snap *addressbook.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Instrument(ctx, "file", "save", func(ctx context.Context) (int, error) {
		data, err := f.codec.Marshal(snap)
		if err != nil {
			return 0, fmt.Errorf("encode as %s: %w", f.codec.Name(), err)
		}

		if dir := filepath.Dir(f.path); dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return 0, fmt.Errorf("create directory %s: %w", dir, err)
			}
		}

		tempPath := f.path + ".tmp"
		if err := os.WriteFile(tempPath, data, 0640); err != nil {
			return 0, fmt.Errorf("write %s: %w", tempPath, err)
		}
		if err := os.Rename(tempPath, f.path); err != nil {
			os.Remove(tempPath)
			return 0, fmt.Errorf("replace %s: %w", f.path, err)
		}

		telemetry.LoggerWithTrace(ctx, f.logger).Debug("storage file written",
			slog.String("path", f.path),
			slog.Int("bytes", len(data)),
		)
		return len(data), nil
	})
}

var _ addressbook.Storage = (*File)(nil)
