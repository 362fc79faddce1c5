// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package addressbook

import (
	"errors"
	"fmt"
)

// Sentinel errors for address book operations.
//
// Every error returned by this package wraps exactly one of these, so callers
// can branch with errors.Is.
var (
	// ErrNotFound is returned when an operation references a person, group,
	// street address, email or phone entry that is not stored.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a person or group with the same identity
	// key is already registered.
	ErrDuplicate = errors.New("duplicate key")

	// ErrInvalidData is returned when an email address or phone number fails
	// format validation, or when a query is malformed.
	ErrInvalidData = errors.New("invalid data")
)

// Error describes a failed address book operation.
//
// Kind is one of the sentinel errors above. Value is the offending key or
// contact entry, kept verbatim for diagnostics.
type Error struct {
	// Op names the operation, e.g. "remove person".
	Op string

	// Kind is ErrNotFound, ErrDuplicate or ErrInvalidData.
	Kind error

	// Value is the key or contact entry the operation was about.
	Value string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("addressbook: %s: %v: %q", e.Op, e.Kind, e.Value)
}

// Unwrap returns the error kind for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(op, value string) error {
	return &Error{Op: op, Kind: ErrNotFound, Value: value}
}

func duplicate(op, value string) error {
	return &Error{Op: op, Kind: ErrDuplicate, Value: value}
}

func invalidData(op, value string) error {
	return &Error{Op: op, Kind: ErrInvalidData, Value: value}
}
