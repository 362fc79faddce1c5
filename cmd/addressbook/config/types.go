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

// Storage backends understood by the CLI.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// AddressBookConfig is the CLI's config file, ~/.addressbook/config.yaml by
// default. Every field can be overridden by an ADDRESSBOOK_* variable.
type AddressBookConfig struct {
	// Storage: where the book is persisted
	Storage StorageConfig `yaml:"storage"`

	// Log: console and file logging
	Log LogConfig `yaml:"log"`

	// Telemetry: where storage spans and metrics go
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StorageConfig selects the backend and the on-disk format of the book.
type StorageConfig struct {
	// Backend is one of "file", "badger" or "memory".
	Backend string `yaml:"backend" env:"ADDRESSBOOK_STORAGE_BACKEND" validate:"required,oneof=file badger memory"`

	// Path is the book file for "file" and the database directory for
	// "badger". "~" expands to the home directory.
	Path string `yaml:"path,omitempty" env:"ADDRESSBOOK_STORAGE_PATH" validate:"required_unless=Backend memory"`

	Format   string `yaml:"format" env:"ADDRESSBOOK_STORAGE_FORMAT" validate:"oneof=yaml json"`
	Compress bool   `yaml:"compress" env:"ADDRESSBOOK_STORAGE_COMPRESS"`
}

// LogConfig maps onto logging.Config.
type LogConfig struct {
	Level string `yaml:"level" env:"ADDRESSBOOK_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir,omitempty" env:"ADDRESSBOOK_LOG_DIR"` // e.g. ~/.addressbook/logs
	JSON  bool   `yaml:"json" env:"ADDRESSBOOK_LOG_JSON"`
}

// TelemetryConfig selects the OpenTelemetry exporter. "stdout" writes spans
// and metrics to stderr, "prometheus" prints the metrics in text exposition
// format when the command finishes.
type TelemetryConfig struct {
	Exporter string `yaml:"exporter" env:"ADDRESSBOOK_TELEMETRY_EXPORTER" validate:"oneof=none stdout prometheus"`
}

// DefaultConfig keeps a YAML book in the user's home directory and logs
// warnings and errors to stderr only.
func DefaultConfig() AddressBookConfig {
	return AddressBookConfig{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "~/.addressbook/addressbook.yaml",
			Format:  "yaml",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Telemetry: TelemetryConfig{
			Exporter: "none",
		},
	}
}
