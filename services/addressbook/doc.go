// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package addressbook provides an in-memory contact store.
//
// An AddressBook holds three collections:
//
//	persons:   "{first}_{last}" → *Person
//	groups:    name             → *Group
//	relations: name             → []person key (ordered, duplicates allowed)
//
// All mutation happens in memory. Persistence is delegated to a Storage
// that loads one Snapshot when the book is created and writes one when the
// caller invokes Save; nothing is saved automatically.
//
// # Basic Usage
//
//	store := storage.NewFile("contacts.yaml")
//	book, err := addressbook.New(ctx, store)
//	if err != nil {
//	    return err
//	}
//
//	p, err := addressbook.NewPerson("John", "Lennon",
//	    addressbook.WithEmailAddresses("john@beatles.com"))
//	if err != nil {
//	    return err
//	}
//	_ = book.AddPerson(p)
//
//	g := addressbook.NewGroup("Beatles")
//	_ = book.AddGroup(g)
//	_ = book.AddPersonToGroup(p, g)
//
//	return book.Save(ctx)
//
// # Errors
//
// Failures wrap ErrNotFound, ErrDuplicate or ErrInvalidData. A failed
// operation never leaves a partial change behind.
package addressbook
