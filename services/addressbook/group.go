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

// Group is a named label. The name is its identity, used verbatim.
type Group struct {
	name string
}

// NewGroup creates a group. It has no effect until added to an AddressBook.
func NewGroup(name string) *Group {
	return &Group{name: name}
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// GroupRecord is the serializable form of a Group.
type GroupRecord struct {
	Name string `yaml:"name" json:"name"`
}

// Record returns the serializable form of g.
func (g *Group) Record() GroupRecord {
	return GroupRecord{Name: g.name}
}

// RestoreGroup rebuilds a group from a stored record.
func RestoreGroup(rec GroupRecord) *Group {
	return &Group{name: rec.Name}
}
