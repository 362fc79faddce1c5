// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/addressbook/pkg/telemetry"
	"github.com/AleutianAI/addressbook/services/addressbook"
	"github.com/AleutianAI/addressbook/services/addressbook/storage"
)

// Keys under which the snapshot's sub-collections are stored.
const (
	KeyPersons   = "addressbook/persons"
	KeyGroups    = "addressbook/groups"
	KeyRelations = "addressbook/relations"
)

// Store implements addressbook.Storage on top of a DB.
//
// Store does not own the DB; closing it is the caller's job.
type Store struct {
	db     *DB
	codec  storage.Codec
	logger *slog.Logger
}

// NewStore creates a Store. A nil codec means storage.JSON; a nil logger
// disables logging.
func NewStore(db *DB, codec storage.Codec, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("db must not be nil")
	}
	if codec == nil {
		codec = storage.JSON
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, codec: codec, logger: logger}, nil
}

// Load reads the three sub-collections.
//
// Outputs:
//
//	*addressbook.Snapshot - nil if none of the keys exist. Keys that are
//	  missing leave their collection nil.
//	error - Non-nil on read or decode failure.
func (s *Store) Load(ctx context.Context) (*addressbook.Snapshot, error) {
	var snap *addressbook.Snapshot
	err := storage.Instrument(ctx, "badger", "load", func(ctx context.Context) (int, error) {
		var (
			out   addressbook.Snapshot
			found bool
			total int
		)
		err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
			targets := []struct {
				key string
				dst any
			}{
				{KeyPersons, &out.Persons},
				{KeyGroups, &out.Groups},
				{KeyRelations, &out.Relations},
			}
			for _, target := range targets {
				n, ok, err := s.get(txn, target.key, target.dst)
				if err != nil {
					return err
				}
				found = found || ok
				total += n
			}
			return nil
		})
		if err != nil {
			return total, err
		}
		if found {
			snap = &out
		}
		return total, nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// get decodes the value at key into dst. ok is false when key is absent.
func (s *Store) get(txn *badger.Txn, key string, dst any) (n int, ok bool, err error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get %s: %w", key, err)
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := s.codec.Unmarshal(data, dst); err != nil {
		return len(data), false, fmt.Errorf("decode %s as %s: %w", key, s.codec.Name(), err)
	}
	return len(data), true, nil
}

// Save writes all three sub-collections in a single transaction.
func (s *Store) Save(ctx context.Context, snap *addressbook.Snapshot) error {
	return storage.Instrument(ctx, "badger", "save", func(ctx context.Context) (int, error) {
		entries := []struct {
			key string
			val any
		}{
			{KeyPersons, snap.Persons},
			{KeyGroups, snap.Groups},
			{KeyRelations, snap.Relations},
		}

		total := 0
		err := s.db.WithTxn(ctx, func(txn *badger.Txn) error {
			for _, e := range entries {
				data, err := s.codec.Marshal(e.val)
				if err != nil {
					return fmt.Errorf("encode %s as %s: %w", e.key, s.codec.Name(), err)
				}
				if err := txn.Set([]byte(e.key), data); err != nil {
					return fmt.Errorf("set %s: %w", e.key, err)
				}
				total += len(data)
			}
			return nil
		})
		if err != nil {
			return total, err
		}
		telemetry.LoggerWithTrace(ctx, s.logger).Debug("address book written to badger", slog.Int("bytes", total))
		return total, nil
	})
}

var _ addressbook.Storage = (*Store)(nil)
