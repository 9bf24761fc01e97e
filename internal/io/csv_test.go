// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package io

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/pkg/principal"
)

func TestLoadMappings(t *testing.T) {
	doc := `
users:
  name: Login
  mail: E-Mail
groups:
  name: Team
`
	m, err := LoadMappings(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.Users["name"] != "Login" || m.Users["mail"] != "E-Mail" {
		t.Fatalf("unexpected user mapping %v", m.Users)
	}
	if m.Groups["name"] != "Team" {
		t.Fatalf("unexpected group mapping %v", m.Groups)
	}
}

func TestLoadMappingsMissingName(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "MissingUserName",
			doc:  "users:\n  mail: E-Mail\ngroups:\n  name: Team\n",
		},
		{
			name: "MissingGroupName",
			doc:  "users:\n  name: Login\ngroups:\n  description: About\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := LoadMappings(strings.NewReader(test.doc)); err == nil {
				t.Fatal("expected a configuration error, got nil")
			}
		})
	}
}

func TestCSVReaderDefaultMappings(t *testing.T) {
	users := `User Name,User Display Name,User Email,User Group Names
alice,Alice A.,alice@example.com,"[""Staff"",""Analysts""]"
bob,,bob@example.com,
`
	groups := `Group Name,Group Description,Group Privileges
Staff,Everyone,"[""DATADOWNLOADING""]"
Analysts,,
`
	reader, err := NewCSVReader(strings.NewReader(users), strings.NewReader(groups), nil, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ugs, err := reader.Read(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if ugs.NumberUsers() != 2 || ugs.NumberGroups() != 2 {
		t.Fatalf("expected 2 users and 2 groups, got %d and %d", ugs.NumberUsers(), ugs.NumberGroups())
	}

	alice := ugs.GetUser("alice")
	if alice.DisplayName != "Alice A." || alice.Mail != "alice@example.com" {
		t.Fatalf("unexpected alice %+v", alice)
	}
	if len(alice.GroupNames) != 2 || alice.GroupNames[0] != "Staff" {
		t.Fatalf("unexpected groups %v", alice.GroupNames)
	}

	// display name falls back to the login name
	if ugs.GetUser("bob").DisplayName != "bob" {
		t.Fatalf("unexpected display name %q", ugs.GetUser("bob").DisplayName)
	}

	staff := ugs.GetGroup("Staff")
	if staff.Description != "Everyone" || !staff.HasPrivilege("DATADOWNLOADING") {
		t.Fatalf("unexpected staff group %+v", staff)
	}

	if result := ugs.Validate(); !result.Valid {
		t.Fatalf("expected a valid container, got %v", result.Issues)
	}
}

func TestCSVReaderCustomMappings(t *testing.T) {
	mappings := &Mappings{
		Users:  FieldMapping{"name": "Login", "mail": "E-Mail"},
		Groups: FieldMapping{"name": "Team"},
	}

	users := "Login,E-Mail\nalice,alice@example.com\n"
	reader, err := NewCSVReader(strings.NewReader(users), nil, mappings, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ugs, err := reader.Read(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ugs.GetUser("alice").Mail != "alice@example.com" {
		t.Fatalf("unexpected user %+v", ugs.GetUser("alice"))
	}
	if ugs.NumberGroups() != 0 {
		t.Fatal("expected no groups without a group file")
	}
}

func TestCSVReaderMissingNameColumn(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader("Other Column\nvalue\n"), nil, nil, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := reader.Read(context.Background()); err == nil {
		t.Fatal("expected an error for a file without the name column")
	}
}

func TestCSVReaderInvalidMappings(t *testing.T) {
	mappings := &Mappings{Users: FieldMapping{"mail": "E-Mail"}, Groups: FieldMapping{"name": "Team"}}
	if _, err := NewCSVReader(strings.NewReader(""), nil, mappings, logging.NewNoopLogger()); err == nil {
		t.Fatal("expected a configuration error, got nil")
	}
}

func TestCSVWriter(t *testing.T) {
	ugs := principal.NewUsersAndGroups()
	alice := principal.NewUser("alice")
	alice.AddGroup("Staff")
	alice.AddGroup("Analysts")
	ugs.AddUser(alice, principal.RaiseErrorOnDuplicate)
	ugs.AddUser(principal.NewUser("bob"), principal.RaiseErrorOnDuplicate)

	var buf bytes.Buffer
	if err := NewCSVWriter(&buf).Write(context.Background(), ugs); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := "username,groupname\nalice,Staff\nalice,Analysts\nbob,\n"
	if buf.String() != expected {
		t.Fatalf("expected %q, got %q", expected, buf.String())
	}
}
