// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath returns ~/.addressbook/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".addressbook", "config.yaml"), nil
}

// Load reads the config at path, creating it with defaults on first run.
//
// # Description
//
// Values are resolved in order: DefaultConfig, the YAML file, then
// ADDRESSBOOK_* environment variables. The result is validated and "~" in
// paths is expanded.
//
// # Outputs
//
//   - AddressBookConfig: The resolved config.
//   - bool: True when the file did not exist and was created.
//   - error: Non-nil on I/O, parse, or validation failure.
func Load(path string) (AddressBookConfig, bool, error) {
	created := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return AddressBookConfig{}, false, err
		}
		created = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return AddressBookConfig{}, created, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AddressBookConfig{}, created, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return AddressBookConfig{}, created, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return AddressBookConfig{}, created, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Log.Dir = expandHome(cfg.Log.Dir)
	return cfg, created, nil
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
