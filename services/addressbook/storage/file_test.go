// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/addressbook/services/addressbook"
)

func sampleSnapshot() *addressbook.Snapshot {
	return &addressbook.Snapshot{
		Persons: map[string]addressbook.PersonRecord{
			"John_Lennon": {
				FirstName:       "John",
				LastName:        "Lennon",
				StreetAddresses: []string{"251 Menlove Avenue, Liverpool"},
				EmailAddresses:  []string{"john@beatles.com"},
				PhoneNumbers:    []string{"+44 151 000"},
			},
			"Paul_McCartney": {FirstName: "Paul", LastName: "McCartney"},
		},
		Groups: map[string]addressbook.GroupRecord{
			"Beatles": {Name: "Beatles"},
			"Wings":   {Name: "Wings"},
		},
		Relations: map[string][]string{
			"Beatles": {"John_Lennon", "Paul_McCartney", "John_Lennon"},
			"Wings":   {},
		},
	}
}

func TestFile_LoadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.yaml"))

	snap, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestFile_SaveLoad(t *testing.T) {
	codecs := []Codec{YAML, JSON, Zstd(YAML), Zstd(JSON)}

	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "book.dat")

			require.NoError(t, NewFile(path, WithCodec(codec)).Save(ctx, sampleSnapshot()))

			got, err := NewFile(path, WithCodec(codec)).Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleSnapshot(), got)

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
		})
	}
}

func TestFile_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "book.yaml")
	f := NewFile(path)

	require.NoError(t, f.Save(ctx, sampleSnapshot()))
	small := &addressbook.Snapshot{
		Groups: map[string]addressbook.GroupRecord{"Solo": {Name: "Solo"}},
	}
	require.NoError(t, f.Save(ctx, small))

	got, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, small, got)
}

func TestFile_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "book.yaml")
	require.NoError(t, NewFile(path).Save(context.Background(), sampleSnapshot()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFile_LoadCustomContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hand-written.yaml")
	content := `persons:
  Tom_Jones:
    first_name: Tom
    last_name: Jones
    email_addresses:
      - thom@jones.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	snap, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, []string{"thom@jones.com"}, snap.Persons["Tom_Jones"].EmailAddresses)
	assert.Nil(t, snap.Groups)
	assert.Nil(t, snap.Relations)
}

func TestFile_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFile(path, WithCodec(JSON)).Load(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFile_SaveIntoUnwritableTarget(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes the rename fail.
	path := filepath.Join(dir, "book.yaml")
	require.NoError(t, os.Mkdir(path, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0600))

	err := NewFile(path).Save(context.Background(), sampleSnapshot())
	assert.Error(t, err)
}

// TestFile_AddressBookRoundTrip persists a book's persons and reloads them
// through a fresh instance backed by the same file.
func TestFile_AddressBookRoundTrip(t *testing.T) {
	codecs := []Codec{YAML, JSON, Zstd(YAML)}

	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "book")

			book, err := addressbook.New(ctx, NewFile(path, WithCodec(codec)))
			require.NoError(t, err)

			lennon, err := addressbook.NewPerson("John", "Lennon",
				addressbook.WithEmailAddresses("john@beatles.com"),
				addressbook.WithPhoneNumbers("112"),
			)
			require.NoError(t, err)
			starr, err := addressbook.NewPerson("Ringo", "Starr",
				addressbook.WithStreetAddresses("Dingle"),
				addressbook.WithEmailAddresses("ringo@beatles.com"),
				addressbook.WithPhoneNumbers("999"),
			)
			require.NoError(t, err)
			beatles := addressbook.NewGroup("Beatles")
			drummers := addressbook.NewGroup("Drummers")

			require.NoError(t, book.AddPerson(lennon))
			require.NoError(t, book.AddPerson(starr))
			require.NoError(t, book.AddGroup(beatles))
			require.NoError(t, book.AddGroup(drummers))
			require.NoError(t, book.AddPersonToGroup(lennon, beatles))
			require.NoError(t, book.AddPersonToGroup(starr, drummers))

			// Lists emptied by removal must reload equal.
			require.NoError(t, starr.RemoveStreetAddress("Dingle"))
			require.NoError(t, starr.RemoveEmailAddress("ringo@beatles.com"))
			require.NoError(t, starr.RemovePhoneNumber("999"))
			require.NoError(t, book.RemovePersonFromGroup(starr, drummers))
			require.NoError(t, book.Save(ctx))

			book2, err := addressbook.New(ctx, NewFile(path, WithCodec(codec)))
			require.NoError(t, err)
			assert.Equal(t, book.Persons(), book2.Persons())
			assert.Equal(t, book.Groups(), book2.Groups())
			assert.Equal(t, book.Relations(), book2.Relations())

			members := book2.GroupMembers(beatles)
			require.Len(t, members, 1)
			assert.Equal(t, "John_Lennon", members[0].Key())
			assert.Empty(t, book2.GroupMembers(drummers))
		})
	}
}
