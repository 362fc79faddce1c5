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
	"slices"
	"strings"
)

// Person is a contact: a name plus ordered lists of street addresses, email
// addresses and phone numbers.
//
// The name is fixed at construction. Key is derived from it, so a person
// keeps the same key for as long as it lives in an AddressBook. Two people
// with the same first and last name collide; the address book treats them as
// one identity.
//
// # Thread Safety
//
// Person is NOT safe for concurrent modification. The AddressBook lock does
// not cover mutations made through a *Person the caller holds.
type Person struct {
	firstName       string
	lastName        string
	streetAddresses []string
	emailAddresses  []string
	phoneNumbers    []string
}

// PersonOption supplies initial contact info to NewPerson.
type PersonOption func(p *Person) error

// WithStreetAddresses adds street addresses in the given order.
func WithStreetAddresses(addrs ...string) PersonOption {
	return func(p *Person) error {
		for _, addr := range addrs {
			p.AddStreetAddress(addr)
		}
		return nil
	}
}

// WithEmailAddresses adds email addresses in the given order. Each one is
// validated exactly as AddEmailAddress does.
func WithEmailAddresses(addrs ...string) PersonOption {
	return func(p *Person) error {
		for _, addr := range addrs {
			if err := p.AddEmailAddress(addr); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithPhoneNumbers adds phone numbers in the given order. Each one is
// validated exactly as AddPhoneNumber does.
func WithPhoneNumbers(nums ...string) PersonOption {
	return func(p *Person) error {
		for _, num := range nums {
			if err := p.AddPhoneNumber(num); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewPerson creates a person with the given name and optional contact info.
//
// # Outputs
//
//   - *Person: The new person.
//   - error: Wraps ErrInvalidData if any initial email or phone is rejected.
//
// # Examples
//
//	p, err := NewPerson("Thom", "Yorke",
//	    WithEmailAddresses("thom@radiohead.com"),
//	    WithPhoneNumbers("+44 20 7946 0000"),
//	)
func NewPerson(firstName, lastName string, opts ...PersonOption) (*Person, error) {
	p := &Person{firstName: firstName, lastName: lastName}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// FirstName returns the person's first name.
func (p *Person) FirstName() string { return p.firstName }

// LastName returns the person's last name.
func (p *Person) LastName() string { return p.lastName }

// Key returns the identity key "{first}_{last}".
func (p *Person) Key() string {
	return personKey(p.firstName, p.lastName)
}

func personKey(firstName, lastName string) string {
	return firstName + "_" + lastName
}

// StreetAddresses returns a copy of the street addresses.
func (p *Person) StreetAddresses() []string { return slices.Clone(p.streetAddresses) }

// EmailAddresses returns a copy of the email addresses in insertion order.
func (p *Person) EmailAddresses() []string { return slices.Clone(p.emailAddresses) }

// PhoneNumbers returns a copy of the phone numbers in insertion order.
func (p *Person) PhoneNumbers() []string { return slices.Clone(p.phoneNumbers) }

// AddStreetAddress appends addr. Street addresses are not validated or
// deduplicated.
func (p *Person) AddStreetAddress(addr string) {
	p.streetAddresses = append(p.streetAddresses, addr)
}

// RemoveStreetAddress removes the first occurrence of addr.
func (p *Person) RemoveStreetAddress(addr string) error {
	var ok bool
	if p.streetAddresses, ok = removeFirst(p.streetAddresses, addr); !ok {
		return notFound("remove street address", addr)
	}
	return nil
}

// AddEmailAddress validates addr against EmailPattern and appends it.
func (p *Person) AddEmailAddress(addr string) error {
	if !ValidEmail(addr) {
		return invalidData("add email address", addr)
	}
	p.emailAddresses = append(p.emailAddresses, addr)
	return nil
}

// RemoveEmailAddress removes the first occurrence of addr.
func (p *Person) RemoveEmailAddress(addr string) error {
	var ok bool
	if p.emailAddresses, ok = removeFirst(p.emailAddresses, addr); !ok {
		return notFound("remove email address", addr)
	}
	return nil
}

// AddPhoneNumber validates num against PhonePattern and appends it.
func (p *Person) AddPhoneNumber(num string) error {
	if !ValidPhone(num) {
		return invalidData("add phone number", num)
	}
	p.phoneNumbers = append(p.phoneNumbers, num)
	return nil
}

// RemovePhoneNumber removes the first occurrence of num.
func (p *Person) RemovePhoneNumber(num string) error {
	var ok bool
	if p.phoneNumbers, ok = removeFirst(p.phoneNumbers, num); !ok {
		return notFound("remove phone number", num)
	}
	return nil
}

// HasEmail reports whether any stored email address starts with keyword.
//
// This is a prefix match, not a substring search: "thom" matches
// "thom@jones.com" and "thome@radiohead.com" but not "jthom@example.com".
func (p *Person) HasEmail(keyword string) bool {
	return slices.ContainsFunc(p.emailAddresses, func(addr string) bool {
		return strings.HasPrefix(addr, keyword)
	})
}

// PersonRecord is the serializable form of a Person.
type PersonRecord struct {
	FirstName       string   `yaml:"first_name" json:"first_name"`
	LastName        string   `yaml:"last_name" json:"last_name"`
	StreetAddresses []string `yaml:"street_addresses,omitempty" json:"street_addresses,omitempty"`
	EmailAddresses  []string `yaml:"email_addresses,omitempty" json:"email_addresses,omitempty"`
	PhoneNumbers    []string `yaml:"phone_numbers,omitempty" json:"phone_numbers,omitempty"`
}

// Record returns a detached snapshot of the person.
func (p *Person) Record() PersonRecord {
	return PersonRecord{
		FirstName:       p.firstName,
		LastName:        p.lastName,
		StreetAddresses: slices.Clone(p.streetAddresses),
		EmailAddresses:  slices.Clone(p.emailAddresses),
		PhoneNumbers:    slices.Clone(p.phoneNumbers),
	}
}

// RestorePerson rebuilds a person from a stored record.
//
// Contact info is taken verbatim; it was validated when it was first added.
func RestorePerson(rec PersonRecord) *Person {
	return &Person{
		firstName:       rec.FirstName,
		lastName:        rec.LastName,
		streetAddresses: cloneOrNil(rec.StreetAddresses),
		emailAddresses:  cloneOrNil(rec.EmailAddresses),
		phoneNumbers:    cloneOrNil(rec.PhoneNumbers),
	}
}

func cloneOrNil(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return slices.Clone(list)
}

// removeFirst deletes the first element equal to v. A list left empty
// comes back nil, the same as an omitted list after a reload.
func removeFirst(list []string, v string) ([]string, bool) {
	i := slices.Index(list, v)
	if i < 0 {
		return list, false
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		return nil, true
	}
	return list, true
}
