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
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// AddressBook holds persons, groups and group memberships in memory.
//
// # Invariants
//
//   - Every name in groups has a relation list, and every relation list
//     belongs to a registered group.
//   - Relation lists may hold the same key more than once, and may hold keys
//     of persons that were never added.
//   - Removing a person purges its key from every relation list.
//
// # Thread Safety
//
// The whole aggregate is guarded by one RWMutex: queries share it, mutations
// hold it exclusively. Persons returned by queries are the stored instances.
type AddressBook struct {
	mu sync.RWMutex

	persons   map[string]*Person
	groups    map[string]*Group
	relations map[string][]string

	storage Storage
	logger  *slog.Logger
}

// Option configures an AddressBook.
type Option func(b *AddressBook)

// WithLogger sets the logger for book events. A nil logger disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(b *AddressBook) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates an address book backed by store and loads its contents.
//
// # Inputs
//
//   - ctx: Context for the initial load.
//   - store: The persistence backend. Required.
//   - opts: Optional settings.
//
// # Outputs
//
//   - *AddressBook: The loaded book. Empty when store holds nothing.
//   - error: Non-nil if store is nil or the load fails.
func New(ctx context.Context, store Storage, opts ...Option) (*AddressBook, error) {
	if store == nil {
		return nil, errors.New("addressbook: storage is required")
	}
	b := &AddressBook{
		persons:   make(map[string]*Person),
		groups:    make(map[string]*Group),
		relations: make(map[string][]string),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.LoadFromStorage(ctx, store); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFromStorage replaces the book's contents with what store holds and
// makes store the target of later Save calls.
//
// When store holds nothing the current contents are kept. Missing
// sub-collections in the snapshot load as empty.
func (b *AddressBook) LoadFromStorage(ctx context.Context, store Storage) error {
	if store == nil {
		return errors.New("addressbook: storage is required")
	}
	snap, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("addressbook: load: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.storage = store
	if snap == nil {
		b.logger.Debug("storage empty, starting fresh")
		return nil
	}

	b.persons = make(map[string]*Person, len(snap.Persons))
	for key, rec := range snap.Persons {
		b.persons[key] = RestorePerson(rec)
	}
	b.groups = make(map[string]*Group, len(snap.Groups))
	for name, rec := range snap.Groups {
		b.groups[name] = RestoreGroup(rec)
	}
	b.relations = make(map[string][]string, len(snap.Relations))
	for name, keys := range snap.Relations {
		if keys == nil {
			keys = []string{}
		}
		b.relations[name] = slices.Clone(keys)
	}

	b.updateGauges()
	b.logger.Info("address book loaded",
		slog.Int("persons", len(b.persons)),
		slog.Int("groups", len(b.groups)),
	)
	return nil
}

// Save writes the three collections to the storage the book was loaded from.
func (b *AddressBook) Save(ctx context.Context) error {
	b.mu.RLock()
	snap := b.snapshotLocked()
	store := b.storage
	b.mu.RUnlock()

	err := store.Save(ctx, snap)
	recordOperation("save", err)
	if err != nil {
		return fmt.Errorf("addressbook: save: %w", err)
	}
	b.logger.Info("address book saved",
		slog.Int("persons", len(snap.Persons)),
		slog.Int("groups", len(snap.Groups)),
	)
	return nil
}

// Snapshot returns a detached copy of the book in its persisted form.
func (b *AddressBook) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

func (b *AddressBook) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Persons:   make(map[string]PersonRecord, len(b.persons)),
		Groups:    make(map[string]GroupRecord, len(b.groups)),
		Relations: make(map[string][]string, len(b.relations)),
	}
	for key, p := range b.persons {
		snap.Persons[key] = p.Record()
	}
	for name, g := range b.groups {
		snap.Groups[name] = g.Record()
	}
	for name, keys := range b.relations {
		snap.Relations[name] = slices.Clone(keys)
	}
	return snap
}

// AddPerson registers p under its key. Fails with ErrDuplicate if the key
// is taken.
func (b *AddressBook) AddPerson(p *Person) (err error) {
	defer func() { recordOperation("add_person", err) }()

	b.mu.Lock()
	defer b.mu.Unlock()

	key := p.Key()
	if _, ok := b.persons[key]; ok {
		return duplicate("add person", key)
	}
	b.persons[key] = p
	b.updateGauges()
	b.logger.Debug("person added", slog.String("key", key))
	return nil
}

// RemovePerson unregisters p and removes its key from every group.
// Fails with ErrNotFound if p is not registered.
func (b *AddressBook) RemovePerson(p *Person) (err error) {
	defer func() { recordOperation("remove_person", err) }()

	b.mu.Lock()
	defer b.mu.Unlock()

	key := p.Key()
	if _, ok := b.persons[key]; !ok {
		return notFound("remove person", key)
	}
	delete(b.persons, key)
	for name := range b.groups {
		b.relations[name] = slices.DeleteFunc(b.relations[name], func(k string) bool {
			return k == key
		})
	}
	b.updateGauges()
	b.logger.Debug("person removed", slog.String("key", key))
	return nil
}

// AddGroup registers g with an empty member list. Fails with ErrDuplicate if
// the name is taken.
func (b *AddressBook) AddGroup(g *Group) (err error) {
	defer func() { recordOperation("add_group", err) }()

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.groups[g.name]; ok {
		return duplicate("add group", g.name)
	}
	b.groups[g.name] = g
	b.relations[g.name] = []string{}
	b.updateGauges()
	b.logger.Debug("group added", slog.String("group", g.name))
	return nil
}

// RemoveGroup unregisters g and drops its member list. Persons are kept.
// Fails with ErrNotFound if g is not registered.
func (b *AddressBook) RemoveGroup(g *Group) (err error) {
	defer func() { recordOperation("remove_group", err) }()

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.groups[g.name]; !ok {
		return notFound("remove group", g.name)
	}
	delete(b.groups, g.name)
	delete(b.relations, g.name)
	b.updateGauges()
	b.logger.Debug("group removed", slog.String("group", g.name))
	return nil
}

// AddPersonToGroup appends p's key to g's member list.
//
// p does not need to be registered and may already be a member; both are
// accepted, so a group can list the same key twice. Fails with ErrNotFound
// if g is not registered.
func (b *AddressBook) AddPersonToGroup(p *Person, g *Group) (err error) {
	defer func() { recordOperation("add_person_to_group", err) }()

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.groups[g.name]; !ok {
		return notFound("add person to group", g.name)
	}
	key := p.Key()
	b.relations[g.name] = append(b.relations[g.name], key)
	b.logger.Debug("member added", slog.String("group", g.name), slog.String("key", key))
	return nil
}

// RemovePersonFromGroup removes the first occurrence of p's key from g's
// member list. Fails with ErrNotFound if g is not registered or p is not a
// member.
func (b *AddressBook) RemovePersonFromGroup(p *Person, g *Group) (err error) {
	defer func() { recordOperation("remove_person_from_group", err) }()

	b.mu.Lock()
	defer b.mu.Unlock()

	members, ok := b.relations[g.name]
	if !ok {
		return notFound("remove person from group", g.name)
	}
	key := p.Key()
	members, ok = removeFirst(members, key)
	if !ok {
		return notFound("remove person from group", key)
	}
	if members == nil {
		members = []string{}
	}
	b.relations[g.name] = members
	b.logger.Debug("member removed", slog.String("group", g.name), slog.String("key", key))
	return nil
}

// GroupMembers returns one entry per key in g's member list, in list order.
//
// A key with no registered person yields a nil entry rather than being
// skipped. An unknown group has no members.
func (b *AddressBook) GroupMembers(g *Group) []*Person {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := b.relations[g.name]
	members := make([]*Person, len(keys))
	for i, key := range keys {
		members[i] = b.persons[key]
	}
	return members
}

// PersonGroups returns every group whose member list contains p's key,
// ordered by group name.
func (b *AddressBook) PersonGroups(p *Person) []*Group {
	b.mu.RLock()
	defer b.mu.RUnlock()

	key := p.Key()
	var groups []*Group
	for _, name := range slices.Sorted(maps.Keys(b.relations)) {
		if slices.Contains(b.relations[name], key) {
			groups = append(groups, b.groups[name])
		}
	}
	return groups
}

// PersonsByEmail returns persons having an email address that starts with
// keyword, ordered by key.
func (b *AddressBook) PersonsByEmail(keyword string) []*Person {
	return b.filterPersons(func(p *Person) bool {
		return p.HasEmail(keyword)
	})
}

// NameOption narrows a PersonsByName query.
type NameOption func(q *nameQuery)

type nameQuery struct {
	firstName, lastName       string
	hasFirstName, hasLastName bool
}

// WithFirstName matches persons whose first name equals name exactly.
func WithFirstName(name string) NameOption {
	return func(q *nameQuery) {
		q.firstName, q.hasFirstName = name, true
	}
}

// WithLastName matches persons whose last name equals name exactly.
func WithLastName(name string) NameOption {
	return func(q *nameQuery) {
		q.lastName, q.hasLastName = name, true
	}
}

// PersonsByName returns persons matching the given name parts, ordered by
// key.
//
// With only WithFirstName the last name is ignored, and vice versa; with
// both, both must match. A query with neither fails with ErrInvalidData.
//
// # Examples
//
//	mikes, _ := book.PersonsByName(WithFirstName("Mike"))
//	tysons, _ := book.PersonsByName(WithLastName("Tyson"))
//	one, _ := book.PersonsByName(WithFirstName("Mike"), WithLastName("Shinoda"))
func (b *AddressBook) PersonsByName(opts ...NameOption) ([]*Person, error) {
	var q nameQuery
	for _, opt := range opts {
		opt(&q)
	}
	if !q.hasFirstName && !q.hasLastName {
		return nil, invalidData("find persons by name", "")
	}
	return b.filterPersons(func(p *Person) bool {
		if q.hasFirstName && p.firstName != q.firstName {
			return false
		}
		if q.hasLastName && p.lastName != q.lastName {
			return false
		}
		return true
	}), nil
}

func (b *AddressBook) filterPersons(match func(p *Person) bool) []*Person {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*Person
	for _, key := range slices.Sorted(maps.Keys(b.persons)) {
		if p := b.persons[key]; match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Person returns the person registered under key.
func (b *AddressBook) Person(key string) (*Person, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.persons[key]
	return p, ok
}

// Group returns the group registered under name.
func (b *AddressBook) Group(name string) (*Group, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	g, ok := b.groups[name]
	return g, ok
}

// Persons returns a copy of the key to person map.
func (b *AddressBook) Persons() map[string]*Person {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.persons)
}

// Groups returns a copy of the name to group map.
func (b *AddressBook) Groups() map[string]*Group {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.groups)
}

// Relations returns a deep copy of the group name to member keys map.
func (b *AddressBook) Relations() map[string][]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string][]string, len(b.relations))
	for name, keys := range b.relations {
		out[name] = slices.Clone(keys)
	}
	return out
}

// updateGauges publishes collection sizes. Caller must hold mu.
func (b *AddressBook) updateGauges() {
	storedEntities.WithLabelValues("persons").Set(float64(len(b.persons)))
	storedEntities.WithLabelValues("groups").Set(float64(len(b.groups)))
}
