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
	"context"
	"maps"
	"slices"
)

// Storage persists an address book as a single snapshot.
//
// Implementations live in the storage package (file, memory) and in
// storage/badger.
type Storage interface {
	// Load returns the stored snapshot, or nil with a nil error when nothing
	// has been stored yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces whatever was stored with snap.
	Save(ctx context.Context, snap *Snapshot) error
}

// Snapshot is the persisted form of an AddressBook.
//
// Any of the three collections may be nil; a nil collection loads as empty.
type Snapshot struct {
	// Persons maps a person key to the person.
	Persons map[string]PersonRecord `yaml:"persons,omitempty" json:"persons,omitempty"`

	// Groups maps a group name to the group.
	Groups map[string]GroupRecord `yaml:"groups,omitempty" json:"groups,omitempty"`

	// Relations maps a group name to the ordered person keys in it.
	Relations map[string][]string `yaml:"relations,omitempty" json:"relations,omitempty"`
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Groups: maps.Clone(s.Groups),
	}
	if s.Persons != nil {
		out.Persons = make(map[string]PersonRecord, len(s.Persons))
		for k, rec := range s.Persons {
			out.Persons[k] = RestorePerson(rec).Record()
		}
	}
	if s.Relations != nil {
		out.Relations = make(map[string][]string, len(s.Relations))
		for k, keys := range s.Relations {
			out.Relations[k] = slices.Clone(keys)
		}
	}
	return out
}
