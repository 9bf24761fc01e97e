// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/pkg/principal"
)

const (
	usersSheet  = "Users"
	groupsSheet = "Groups"
)

var (
	userColumns  = []string{"Name", "Password", "Display Name", "Email", "Groups", "Visibility"}
	groupColumns = []string{"Name", "Display Name", "Description", "Groups", "Visibility", "Privileges"}

	_ ReaderInterface = (*XLSXReader)(nil)
	_ WriterInterface = (*XLSXWriter)(nil)
)

// XLSXWriter renders the container as a workbook with a Users and a
// Groups sheet. List-valued cells hold JSON arrays, mirroring the reader.
type XLSXWriter struct {
	sink io.Writer
}

func NewXLSXWriter(sink io.Writer) *XLSXWriter {
	w := new(XLSXWriter)

	w.sink = sink

	return w
}

func (w *XLSXWriter) Write(ctx context.Context, ugs *principal.UsersAndGroups) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeUsers(f, ugs.GetUsers()); err != nil {
		return err
	}
	if err := w.writeGroups(f, ugs.GetGroups()); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	return f.Write(w.sink)
}

func (w *XLSXWriter) writeUsers(f *excelize.File, users []*principal.User) error {
	if _, err := f.NewSheet(usersSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(usersSheet, "A1", &userColumns); err != nil {
		return err
	}

	for i, u := range users {
		groups, err := json.Marshal(emptyIfNil(u.GroupNames))
		if err != nil {
			return err
		}
		row := []any{u.Name, u.Password, u.DisplayName, u.Mail, string(groups), string(u.Visibility)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(usersSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) writeGroups(f *excelize.File, groups []*principal.Group) error {
	if _, err := f.NewSheet(groupsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(groupsSheet, "A1", &groupColumns); err != nil {
		return err
	}

	for i, g := range groups {
		parents, err := json.Marshal(emptyIfNil(g.GroupNames))
		if err != nil {
			return err
		}
		privileges, err := json.Marshal(emptyIfNil(g.Privileges))
		if err != nil {
			return err
		}
		row := []any{g.Name, g.DisplayName, g.Description, string(parents), string(g.Visibility), string(privileges)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(groupsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// XLSXReader loads a workbook in the format the writer produces. The
// sheet and column layout is verified up front and every missing piece is
// reported in one error.
type XLSXReader struct {
	source io.Reader
	logger logging.LoggerInterface
}

func NewXLSXReader(source io.Reader, logger logging.LoggerInterface) *XLSXReader {
	r := new(XLSXReader)

	r.source = source
	r.logger = logger

	return r
}

func (r *XLSXReader) Read(ctx context.Context) (*principal.UsersAndGroups, error) {
	f, err := excelize.OpenReader(r.source)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if err := verifyWorkbook(f); err != nil {
		return nil, err
	}

	ugs := principal.NewUsersAndGroups()
	if err := r.readUsers(f, ugs); err != nil {
		return nil, err
	}
	if err := r.readGroups(f, ugs); err != nil {
		return nil, err
	}
	return ugs, nil
}

// verifyWorkbook checks the required sheets and columns exist, reporting
// everything that is missing rather than the first find.
func verifyWorkbook(f *excelize.File) error {
	var missing []string

	sheets := make(map[string]struct{})
	for _, name := range f.GetSheetList() {
		sheets[name] = struct{}{}
	}

	required := map[string][]string{usersSheet: userColumns, groupsSheet: groupColumns}
	for _, sheet := range []string{usersSheet, groupsSheet} {
		if _, ok := sheets[sheet]; !ok {
			missing = append(missing, fmt.Sprintf("sheet %q", sheet))
			continue
		}
		header, err := headerRow(f, sheet)
		if err != nil {
			return err
		}
		for _, column := range required[sheet] {
			if _, ok := header[column]; !ok {
				missing = append(missing, fmt.Sprintf("column %q in sheet %q", column, sheet))
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("workbook is not in the expected format, missing: %v", missing)
	}
	return nil
}

func headerRow(f *excelize.File, sheet string) (map[string]int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	header := make(map[string]int)
	if len(rows) == 0 {
		return header, nil
	}
	for i, name := range rows[0] {
		header[name] = i
	}
	return header, nil
}

func (r *XLSXReader) readUsers(f *excelize.File, ugs *principal.UsersAndGroups) error {
	rows, err := f.GetRows(usersSheet)
	if err != nil {
		return err
	}
	header, err := headerRow(f, usersSheet)
	if err != nil {
		return err
	}

	for _, row := range rows[1:] {
		u := principal.NewUser(cell(row, header, "Name"))
		u.Password = cell(row, header, "Password")
		if v := cell(row, header, "Display Name"); v != "" {
			u.DisplayName = v
		}
		u.Mail = cell(row, header, "Email")
		if v := cell(row, header, "Visibility"); v != "" {
			u.Visibility = principal.Visibility(v)
		}

		groups, err := parseList(cell(row, header, "Groups"))
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

func (r *XLSXReader) readGroups(f *excelize.File, ugs *principal.UsersAndGroups) error {
	rows, err := f.GetRows(groupsSheet)
	if err != nil {
		return err
	}
	header, err := headerRow(f, groupsSheet)
	if err != nil {
		return err
	}

	for _, row := range rows[1:] {
		g := principal.NewGroup(cell(row, header, "Name"))
		if v := cell(row, header, "Display Name"); v != "" {
			g.DisplayName = v
		}
		g.Description = cell(row, header, "Description")
		if v := cell(row, header, "Visibility"); v != "" {
			g.Visibility = principal.Visibility(v)
		}

		parents, err := parseList(cell(row, header, "Groups"))
		if err != nil {
			return fmt.Errorf("bad parent list for group %q: %w", g.Name, err)
		}
		for _, p := range parents {
			g.AddGroup(p)
		}

		privileges, err := parseList(cell(row, header, "Privileges"))
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
