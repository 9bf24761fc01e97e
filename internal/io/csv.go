// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package io

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/pkg/principal"
)

var (
	_ ReaderInterface = (*CSVReader)(nil)
	_ WriterInterface = (*CSVWriter)(nil)
)

// FieldMapping maps principal fields to the column headers carrying them.
type FieldMapping map[string]string

// Mappings configures how CSV columns map onto user and group fields. The
// zero value is not usable; start from DefaultMappings or LoadMappings.
type Mappings struct {
	Users  FieldMapping `yaml:"users"`
	Groups FieldMapping `yaml:"groups"`
}

// DefaultMappings returns the column names the CSV reader expects when no
// mapping file is given.
func DefaultMappings() *Mappings {
	return &Mappings{
		Users: FieldMapping{
			"name":        "User Name",
			"displayName": "User Display Name",
			"password":    "User Password",
			"mail":        "User Email",
			"groupNames":  "User Group Names",
			"visibility":  "User Visibility",
		},
		Groups: FieldMapping{
			"name":        "Group Name",
			"displayName": "Group Display Name",
			"description": "Group Description",
			"groupNames":  "Group Names",
			"visibility":  "Group Visibility",
			"privileges":  "Group Privileges",
		},
	}
}

// LoadMappings reads a YAML mapping document. A mapping without a "name"
// entry for users or groups is a configuration error.
func LoadMappings(source io.Reader) (*Mappings, error) {
	m := new(Mappings)
	if err := yaml.NewDecoder(source).Decode(m); err != nil {
		return nil, fmt.Errorf("failed to parse field mappings: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mappings) validate() error {
	if m.Users["name"] == "" {
		return errors.New("field mappings are missing the name column for users")
	}
	if m.Groups["name"] == "" {
		return errors.New("field mappings are missing the name column for groups")
	}
	return nil
}

// CSVReader loads users, and optionally groups, from CSV files with
// mapped columns. List-valued cells (group references, privileges) hold
// JSON arrays.
type CSVReader struct {
	users    io.Reader
	groups   io.Reader
	mappings *Mappings

	logger logging.LoggerInterface
}

// NewCSVReader creates a reader over a user file and an optional group
// file. A nil groups reader loads no group definitions; referenced groups
// can be created during reconciliation instead.
func NewCSVReader(users, groups io.Reader, mappings *Mappings, logger logging.LoggerInterface) (*CSVReader, error) {
	if mappings == nil {
		mappings = DefaultMappings()
	}
	if err := mappings.validate(); err != nil {
		return nil, err
	}

	r := new(CSVReader)

	r.users = users
	r.groups = groups
	r.mappings = mappings
	r.logger = logger

	return r, nil
}

func (r *CSVReader) Read(ctx context.Context) (*principal.UsersAndGroups, error) {
	ugs := principal.NewUsersAndGroups()

	if err := r.readUsers(ugs); err != nil {
		return nil, err
	}
	if r.groups != nil {
		if err := r.readGroups(ugs); err != nil {
			return nil, err
		}
	}
	return ugs, nil
}

func (r *CSVReader) readUsers(ugs *principal.UsersAndGroups) error {
	rows, indices, err := readTable(r.users, r.mappings.Users)
	if err != nil {
		return fmt.Errorf("failed to read user table: %w", err)
	}

	for _, row := range rows {
		u := principal.NewUser(cell(row, indices, "name"))
		if v := cell(row, indices, "displayName"); v != "" {
			u.DisplayName = v
		}
		u.Password = cell(row, indices, "password")
		u.Mail = cell(row, indices, "mail")
		if v := cell(row, indices, "visibility"); v != "" {
			u.Visibility = principal.Visibility(v)
		}

		groups, err := parseList(cell(row, indices, "groupNames"))
		if err != nil {
			return fmt.Errorf("bad group list for user %q: %w", u.Name, err)
		}
		for _, g := range groups {
			u.AddGroup(g)
		}

		if err := ugs.AddUser(u, principal.RaiseErrorOnDuplicate); err != nil {
			return err
		}
	}
	return nil
}

func (r *CSVReader) readGroups(ugs *principal.UsersAndGroups) error {
	rows, indices, err := readTable(r.groups, r.mappings.Groups)
	if err != nil {
		return fmt.Errorf("failed to read group table: %w", err)
	}

	for _, row := range rows {
		g := principal.NewGroup(cell(row, indices, "name"))
		if v := cell(row, indices, "displayName"); v != "" {
			g.DisplayName = v
		}
		g.Description = cell(row, indices, "description")
		if v := cell(row, indices, "visibility"); v != "" {
			g.Visibility = principal.Visibility(v)
		}

		parents, err := parseList(cell(row, indices, "groupNames"))
		if err != nil {
			return fmt.Errorf("bad parent list for group %q: %w", g.Name, err)
		}
		for _, p := range parents {
			g.AddGroup(p)
		}

		privileges, err := parseList(cell(row, indices, "privileges"))
		if err != nil {
			return fmt.Errorf("bad privilege list for group %q: %w", g.Name, err)
		}
		g.Privileges = privileges

		if err := ugs.AddGroup(g, principal.RaiseErrorOnDuplicate); err != nil {
			return err
		}
	}
	return nil
}

// readTable reads a CSV file and resolves the mapped columns to indices.
// Only the "name" column is mandatory; other mapped columns may be absent
// from the file.
func readTable(source io.Reader, mapping FieldMapping) ([][]string, map[string]int, error) {
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("file has no header row")
	}

	header := records[0]
	indices := make(map[string]int)
	for field, column := range mapping {
		for i, h := range header {
			if h == column {
				indices[field] = i
				break
			}
		}
	}
	if _, ok := indices["name"]; !ok {
		return nil, nil, fmt.Errorf("missing column %q", mapping["name"])
	}

	return records[1:], indices, nil
}

func cell(row []string, indices map[string]int, field string) string {
	i, ok := indices[field]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseList parses a JSON array cell. Empty cells are empty lists.
func parseList(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CSVWriter flattens the container into membership pairs, one row per
// user and group reference. Users without groups still get a row with an
// empty group column.
type CSVWriter struct {
	sink io.Writer
}

func NewCSVWriter(sink io.Writer) *CSVWriter {
	w := new(CSVWriter)

	w.sink = sink

	return w
}

func (w *CSVWriter) Write(ctx context.Context, ugs *principal.UsersAndGroups) error {
	writer := csv.NewWriter(w.sink)

	if err := writer.Write([]string{"username", "groupname"}); err != nil {
		return err
	}
	for _, user := range ugs.GetUsers() {
		if len(user.GroupNames) == 0 {
			if err := writer.Write([]string{user.Name, ""}); err != nil {
				return err
			}
			continue
		}
		for _, group := range user.GroupNames {
			if err := writer.Write([]string{user.Name, group}); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
