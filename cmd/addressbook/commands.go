// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/addressbook/services/addressbook"
)

// configPath is the --config flag. Empty means ~/.addressbook/config.yaml.
var configPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "addressbook",
		Short:         "Manage persons, groups and memberships in an address book",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the config file (default ~/.addressbook/config.yaml)")

	// --- Persons ---
	personCmd := &cobra.Command{
		Use:   "person",
		Short: "Add, update, remove and find persons",
	}
	personCmd.AddCommand(
		newPersonAddCmd(),
		newPersonUpdateCmd(),
		newPersonRemoveCmd(),
		newPersonShowCmd(),
		newPersonFindCmd(),
	)

	// --- Groups ---
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Add and remove groups, list their members",
	}
	groupCmd.AddCommand(newGroupAddCmd(), newGroupRemoveCmd(), newGroupMembersCmd())

	// --- Memberships ---
	memberCmd := &cobra.Command{
		Use:   "member",
		Short: "Put persons into groups and take them out",
	}
	memberCmd.AddCommand(newMemberAddCmd(), newMemberRemoveCmd())

	rootCmd.AddCommand(personCmd, groupCmd, memberCmd, newGroupsOfCmd())
	return rootCmd
}

func newPersonAddCmd() *cobra.Command {
	var emails, phones, addresses []string
	cmd := &cobra.Command{
		Use:   "add FIRST LAST",
		Short: "Add a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := addressbook.NewPerson(args[0], args[1],
				addressbook.WithEmailAddresses(emails...),
				addressbook.WithPhoneNumbers(phones...),
				addressbook.WithStreetAddresses(addresses...),
			)
			if err != nil {
				return err
			}
			return withBook(cmd, true, func(ctx context.Context, book *addressbook.AddressBook) error {
				if err := book.AddPerson(p); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p.Key())
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&emails, "email", nil, "Email address (repeatable)")
	cmd.Flags().StringArrayVar(&phones, "phone", nil, "Phone number (repeatable)")
	cmd.Flags().StringArrayVar(&addresses, "address", nil, "Street address (repeatable)")
	return cmd
}

func newPersonUpdateCmd() *cobra.Command {
	var addEmails, removeEmails, addPhones, removePhones, addAddresses, removeAddresses []string
	cmd := &cobra.Command{
		Use:   "update FIRST LAST",
		Short: "Add or remove a person's emails, phones and street addresses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, true, func(ctx context.Context, book *addressbook.AddressBook) error {
				p, err := lookupPerson(book, args[0], args[1])
				if err != nil {
					return err
				}
				for _, e := range removeEmails {
					if err := p.RemoveEmailAddress(e); err != nil {
						return err
					}
				}
				for _, e := range addEmails {
					if err := p.AddEmailAddress(e); err != nil {
						return err
					}
				}
				for _, n := range removePhones {
					if err := p.RemovePhoneNumber(n); err != nil {
						return err
					}
				}
				for _, n := range addPhones {
					if err := p.AddPhoneNumber(n); err != nil {
						return err
					}
				}
				for _, a := range removeAddresses {
					if err := p.RemoveStreetAddress(a); err != nil {
						return err
					}
				}
				for _, a := range addAddresses {
					p.AddStreetAddress(a)
				}
				return printYAML(cmd.OutOrStdout(), p.Record())
			})
		},
	}
	cmd.Flags().StringArrayVar(&addEmails, "add-email", nil, "Email address to add (repeatable)")
	cmd.Flags().StringArrayVar(&removeEmails, "remove-email", nil, "Email address to remove (repeatable)")
	cmd.Flags().StringArrayVar(&addPhones, "add-phone", nil, "Phone number to add (repeatable)")
	cmd.Flags().StringArrayVar(&removePhones, "remove-phone", nil, "Phone number to remove (repeatable)")
	cmd.Flags().StringArrayVar(&addAddresses, "add-address", nil, "Street address to add (repeatable)")
	cmd.Flags().StringArrayVar(&removeAddresses, "remove-address", nil, "Street address to remove (repeatable)")
	return cmd
}

func newPersonRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove FIRST LAST",
		Short: "Remove a person and all of their memberships",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, true, func(ctx context.Context, book *addressbook.AddressBook) error {
				p, err := addressbook.NewPerson(args[0], args[1])
				if err != nil {
					return err
				}
				return book.RemovePerson(p)
			})
		},
	}
}

func newPersonShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FIRST LAST",
		Short: "Print a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, false, func(ctx context.Context, book *addressbook.AddressBook) error {
				p, err := lookupPerson(book, args[0], args[1])
				if err != nil {
					return err
				}
				return printYAML(cmd.OutOrStdout(), p.Record())
			})
		},
	}
}

func newPersonFindCmd() *cobra.Command {
	var email, first, last string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find persons by email prefix or by name",
		Long: `Find persons by email prefix (--email) or by name (--first, --last).
An email search matches when any of the person's addresses starts with the
given text. A name search matches on every name given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, false, func(ctx context.Context, book *addressbook.AddressBook) error {
				var found []*addressbook.Person
				if cmd.Flags().Changed("email") {
					found = book.PersonsByEmail(email)
				} else {
					var opts []addressbook.NameOption
					if cmd.Flags().Changed("first") {
						opts = append(opts, addressbook.WithFirstName(first))
					}
					if cmd.Flags().Changed("last") {
						opts = append(opts, addressbook.WithLastName(last))
					}
					var err error
					if found, err = book.PersonsByName(opts...); err != nil {
						return fmt.Errorf("give --email, --first or --last: %w", err)
					}
				}
				for _, p := range found {
					fmt.Fprintln(cmd.OutOrStdout(), p.Key())
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email prefix")
	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.MarkFlagsMutuallyExclusive("email", "first")
	cmd.MarkFlagsMutuallyExclusive("email", "last")
	return cmd
}

func newGroupAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, true, func(ctx context.Context, book *addressbook.AddressBook) error {
				return book.AddGroup(addressbook.NewGroup(args[0]))
			})
		},
	}
}

func newGroupRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a group and its memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, true, func(ctx context.Context, book *addressbook.AddressBook) error {
				return book.RemoveGroup(addressbook.NewGroup(args[0]))
			})
		},
	}
}

func newGroupMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members NAME",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, false, func(ctx context.Context, book *addressbook.AddressBook) error {
				for _, p := range book.GroupMembers(addressbook.NewGroup(args[0])) {
					if p == nil {
						fmt.Fprintln(cmd.OutOrStdout(), "(missing)")
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), p.Key())
				}
				return nil
			})
		},
	}
}

func newMemberAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add GROUP FIRST LAST",
		Short: "Add a person to a group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, true, func(ctx context.Context, book *addressbook.AddressBook) error {
				p, err := addressbook.NewPerson(args[1], args[2])
				if err != nil {
					return err
				}
				return book.AddPersonToGroup(p, addressbook.NewGroup(args[0]))
			})
		},
	}
}

func newMemberRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove GROUP FIRST LAST",
		Short: "Remove a person from a group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, true, func(ctx context.Context, book *addressbook.AddressBook) error {
				p, err := addressbook.NewPerson(args[1], args[2])
				if err != nil {
					return err
				}
				return book.RemovePersonFromGroup(p, addressbook.NewGroup(args[0]))
			})
		},
	}
}

func newGroupsOfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups-of FIRST LAST",
		Short: "List the groups a person belongs to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(cmd, false, func(ctx context.Context, book *addressbook.AddressBook) error {
				p, err := addressbook.NewPerson(args[0], args[1])
				if err != nil {
					return err
				}
				for _, g := range book.PersonGroups(p) {
					fmt.Fprintln(cmd.OutOrStdout(), g.Name())
				}
				return nil
			})
		},
	}
}

// lookupPerson returns the stored person, not a fresh value, so updates
// reach the book.
func lookupPerson(book *addressbook.AddressBook, first, last string) (*addressbook.Person, error) {
	probe, err := addressbook.NewPerson(first, last)
	if err != nil {
		return nil, err
	}
	p, ok := book.Person(probe.Key())
	if !ok {
		return nil, fmt.Errorf("person %s: %w", probe.Key(), addressbook.ErrNotFound)
	}
	return p, nil
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
