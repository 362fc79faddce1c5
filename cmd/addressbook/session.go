// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/addressbook/cmd/addressbook/config"
	"github.com/AleutianAI/addressbook/pkg/logging"
	"github.com/AleutianAI/addressbook/pkg/telemetry"
	"github.com/AleutianAI/addressbook/services/addressbook"
	"github.com/AleutianAI/addressbook/services/addressbook/storage"
	badgerstore "github.com/AleutianAI/addressbook/services/addressbook/storage/badger"
)

// session is one CLI invocation: config, logger, telemetry, storage and the
// loaded book.
type session struct {
	cfg               config.AddressBookConfig
	logger            *logging.Logger
	shutdownTelemetry func(context.Context) error
	closeStore        func() error
	book              *addressbook.AddressBook
}

// openSession resolves the config and loads the book from its storage.
func openSession(cmd *cobra.Command) (*session, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg, created, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if created {
		fmt.Fprintf(cmd.ErrOrStderr(), "First run detected, created the config at %s\n", path)
	}

	level, ok := logging.ParseLevel(cfg.Log.Level)
	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Log.Dir,
		Service: "addressbook",
		JSON:    cfg.Log.JSON,
		Output:  cmd.ErrOrStderr(),
	})
	if !ok {
		logger.Warn("unknown log level, using info", slog.String("level", cfg.Log.Level))
	}

	shutdownTelemetry, err := telemetry.Init(cmd.Context(), telemetry.Config{
		ServiceName:    "addressbook",
		ServiceVersion: version,
		Exporter:       cfg.Telemetry.Exporter,
		Output:         cmd.ErrOrStderr(),
	})
	if err != nil {
		logger.Close()
		return nil, err
	}

	store, closeStore, err := openStorage(cfg.Storage, logger.Slog())
	if err != nil {
		shutdownTelemetry(context.Background())
		logger.Close()
		return nil, err
	}

	book, err := addressbook.New(cmd.Context(), store, addressbook.WithLogger(logger.Slog()))
	if err != nil {
		closeStore()
		shutdownTelemetry(context.Background())
		logger.Close()
		return nil, err
	}

	return &session{
		cfg:               cfg,
		logger:            logger,
		shutdownTelemetry: shutdownTelemetry,
		closeStore:        closeStore,
		book:              book,
	}, nil
}

// Close releases the storage, flushes telemetry and closes the log file.
func (s *session) Close() error {
	return errors.Join(
		s.closeStore(),
		s.shutdownTelemetry(context.Background()),
		s.logger.Close(),
	)
}

// openStorage builds the backend named by cfg.Backend.
//
// # Outputs
//
//   - addressbook.Storage: The backend.
//   - func() error: Releases the backend. Never nil.
//   - error: Non-nil for an unknown backend or codec, or an open failure.
func openStorage(cfg config.StorageConfig, logger *slog.Logger) (addressbook.Storage, func() error, error) {
	codec, err := storage.CodecByName(cfg.Format, cfg.Compress)
	if err != nil {
		return nil, nil, err
	}
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendFile:
		return storage.NewFile(cfg.Path, storage.WithCodec(codec), storage.WithLogger(logger)), noop, nil

	case config.BackendBadger:
		dbCfg := badgerstore.DefaultConfig()
		dbCfg.Path = cfg.Path
		dbCfg.Logger = logger
		db, err := badgerstore.OpenDB(dbCfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := badgerstore.NewStore(db, codec, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.BackendMemory:
		return storage.NewMemory(codec), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// withBook runs fn against the loaded book and saves afterwards when save
// is set and fn succeeded.
func withBook(cmd *cobra.Command, save bool, fn func(ctx context.Context, book *addressbook.AddressBook) error) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx := cmd.Context()
	if err := fn(ctx, s.book); err != nil {
		return err
	}
	if save {
		return s.book.Save(ctx)
	}
	return nil
}
