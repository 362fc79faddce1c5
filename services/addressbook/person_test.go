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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarkRutte(t *testing.T) *Person {
	t.Helper()
	p, err := NewPerson("Mark", "Rutte")
	require.NoError(t, err)
	return p
}

func TestPerson_Key(t *testing.T) {
	p := newMarkRutte(t)
	assert.Equal(t, "Mark_Rutte", p.Key())
	assert.Equal(t, "Mark", p.FirstName())
	assert.Equal(t, "Rutte", p.LastName())

	empty, err := NewPerson("", "")
	require.NoError(t, err)
	assert.Equal(t, "_", empty.Key())
}

func TestPerson_StreetAddress(t *testing.T) {
	p := newMarkRutte(t)
	addrs := []string{"Greek street, 3, Lisbon", "Palm street, 4, Porto"}

	p.AddStreetAddress(addrs[0])
	p.AddStreetAddress(addrs[1])
	assert.Equal(t, addrs, p.StreetAddresses())

	require.NoError(t, p.RemoveStreetAddress(addrs[0]))
	assert.Equal(t, addrs[1:], p.StreetAddresses())
}

func TestPerson_StreetAddressRemovalFails(t *testing.T) {
	p := newMarkRutte(t)
	err := p.RemoveStreetAddress("Bermuda Triangle, 777")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPerson_StreetAddressDuplicatesKept(t *testing.T) {
	p := newMarkRutte(t)
	p.AddStreetAddress("Dam 1")
	p.AddStreetAddress("Dam 1")
	require.NoError(t, p.RemoveStreetAddress("Dam 1"))
	assert.Equal(t, []string{"Dam 1"}, p.StreetAddresses())
}

func TestPerson_EmailAddress(t *testing.T) {
	p := newMarkRutte(t)
	emails := []string{"erik@gmail.com", "sergey@gmail.com"}

	require.NoError(t, p.AddEmailAddress(emails[0]))
	require.NoError(t, p.AddEmailAddress(emails[1]))
	assert.Equal(t, emails, p.EmailAddresses())

	require.NoError(t, p.RemoveEmailAddress(emails[1]))
	assert.Equal(t, emails[:1], p.EmailAddresses())
}

func TestPerson_EmailAddressValidationFails(t *testing.T) {
	p := newMarkRutte(t)
	err := p.AddEmailAddress("exam!!!ple@example.com")
	require.ErrorIs(t, err, ErrInvalidData)
	assert.Empty(t, p.EmailAddresses())

	var abErr *Error
	require.True(t, errors.As(err, &abErr))
	assert.Equal(t, "exam!!!ple@example.com", abErr.Value)
}

func TestPerson_EmailAddressRemovalFails(t *testing.T) {
	p := newMarkRutte(t)
	assert.ErrorIs(t, p.RemoveEmailAddress("example@example.com"), ErrNotFound)
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"erik@gmail.com", true},
		{"first.last-x_y@sub.example.co.uk", true},
		{"a@b.info", true},
		{"exam!!!ple@example.com", false},
		{"Erik@gmail.com", false},
		{"erik@gmail.c", false},
		{"erik@gmail.abcdefg", false},
		{"erikgmail.com", false},
		{"", false},
		{" erik@gmail.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.addr))
		})
	}
}

func TestPerson_PhoneNumber(t *testing.T) {
	p := newMarkRutte(t)
	phones := []string{"911", "112"}

	require.NoError(t, p.AddPhoneNumber(phones[0]))
	require.NoError(t, p.AddPhoneNumber(phones[1]))
	assert.Equal(t, phones, p.PhoneNumbers())

	require.NoError(t, p.RemovePhoneNumber(phones[0]))
	assert.Equal(t, phones[1:], p.PhoneNumbers())
}

func TestPerson_PhoneValidationFails(t *testing.T) {
	p := newMarkRutte(t)
	assert.ErrorIs(t, p.AddPhoneNumber("001!!!"), ErrInvalidData)
	assert.Empty(t, p.PhoneNumbers())
}

func TestPerson_PhoneRemovalFails(t *testing.T) {
	p := newMarkRutte(t)
	assert.ErrorIs(t, p.RemovePhoneNumber("012345678"), ErrNotFound)
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		num  string
		want bool
	}{
		{"911", true},
		{"+1 (555) 010-9999", true},
		{"020.7946.0000", true},
		{"001!!!", false},
		{"555-CALL", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.num, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.num))
		})
	}
}

func TestNewPerson_InitialContactInfo(t *testing.T) {
	p, err := NewPerson("Thome", "Yorke",
		WithStreetAddresses("Oxford"),
		WithEmailAddresses("thome@radiohead.com", "thome@atomsforpease.com"),
		WithPhoneNumbers("112"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oxford"}, p.StreetAddresses())
	assert.Equal(t, []string{"thome@radiohead.com", "thome@atomsforpease.com"}, p.EmailAddresses())
	assert.Equal(t, []string{"112"}, p.PhoneNumbers())
}

func TestNewPerson_InvalidInitialContactInfo(t *testing.T) {
	_, err := NewPerson("Thome", "Yorke", WithEmailAddresses("THOME@RADIOHEAD.COM"))
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = NewPerson("Thome", "Yorke", WithPhoneNumbers("call me"))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestPerson_HasEmail(t *testing.T) {
	p, err := NewPerson("Tom", "Jones", WithEmailAddresses("thom@jones.com"))
	require.NoError(t, err)

	assert.True(t, p.HasEmail("thom"))
	assert.True(t, p.HasEmail("thom@jones.com"))
	assert.True(t, p.HasEmail(""))
	assert.False(t, p.HasEmail("jones"), "substring is not a prefix")
	assert.False(t, p.HasEmail("thomas"))
}

func TestPerson_AccessorsReturnCopies(t *testing.T) {
	p, err := NewPerson("Mark", "Rutte", WithEmailAddresses("mark@gov.nl"))
	require.NoError(t, err)

	emails := p.EmailAddresses()
	emails[0] = "changed"
	assert.Equal(t, []string{"mark@gov.nl"}, p.EmailAddresses())
}

func TestPerson_RecordRoundTrip(t *testing.T) {
	p, err := NewPerson("Mark", "Rutte",
		WithStreetAddresses("Binnenhof 1"),
		WithEmailAddresses("mark@gov.nl"),
		WithPhoneNumbers("+31 70 000"),
	)
	require.NoError(t, err)

	rec := p.Record()
	assert.Equal(t, "Mark", rec.FirstName)
	assert.Equal(t, "Rutte", rec.LastName)

	restored := RestorePerson(rec)
	assert.Equal(t, p, restored)
	assert.Equal(t, p.Key(), restored.Key())
}
