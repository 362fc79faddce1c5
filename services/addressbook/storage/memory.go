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
	"fmt"
	"sync"

	"github.com/AleutianAI/addressbook/services/addressbook"
)

// Memory keeps an encoded snapshot in process.
//
// Snapshots go through the codec on every Save and Load, so a book loaded
// from Memory never shares state with the book that saved it.
type Memory struct {
	codec Codec

	mu   sync.RWMutex
	data []byte
}

// NewMemory creates an empty in-memory backend using codec. A nil codec
// means YAML.
func NewMemory(codec Codec) *Memory {
	if codec == nil {
		codec = YAML
	}
	return &Memory{codec: codec}
}

// Load decodes the last saved snapshot, or returns nil if none was saved.
func (m *Memory) Load(ctx context.Context) (*addressbook.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var snap *addressbook.Snapshot
	err := Instrument(ctx, "memory", "load", func(ctx context.Context) (int, error) {
		if m.data == nil {
			return 0, nil
		}
		snap = &addressbook.Snapshot{}
		if err := m.codec.Unmarshal(m.data, snap); err != nil {
			return len(m.data), fmt.Errorf("decode as %s: %w", m.codec.Name(), err)
		}
		return len(m.data), nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Save encodes snap and keeps the bytes.
func (m *Memory) Save(ctx context.Context, snap *addressbook.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Instrument(ctx, "memory", "save", func(ctx context.Context) (int, error) {
		data, err := m.codec.Marshal(snap)
		if err != nil {
			return 0, fmt.Errorf("encode as %s: %w", m.codec.Name(), err)
		}
		m.data = data
		return len(data), nil
	})
}

// Bytes returns a copy of the stored encoding, or nil if nothing was saved.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil
	}
	return append([]byte(nil), m.data...)
}

var _ addressbook.Storage = (*Memory)(nil)
