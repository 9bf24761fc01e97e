// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package principal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// principalRecord is the flat wire shape shared by users and groups. Only
// the discriminator tells them apart.
type principalRecord struct {
	PrincipalTypeEnum string          `json:"principalTypeEnum"`
	Name              string          `json:"name"`
	DisplayName       string          `json:"displayName"`
	Password          string          `json:"password"`
	Mail              string          `json:"mail"`
	Description       string          `json:"description"`
	GroupNames        []string        `json:"groupNames"`
	Visibility        string          `json:"visibility"`
	Privileges        []string        `json:"privileges"`
	Created           json.RawMessage `json:"created"`
	ID                string          `json:"id"`
}

// ToJSON serializes the container as a single flat array of principal
// records, groups first, then users. Empty fields are omitted.
func (ug *UsersAndGroups) ToJSON() ([]byte, error) {
	records := make([]any, 0, len(ug.groupOrder)+len(ug.userOrder))
	for _, g := range ug.GetGroups() {
		records = append(records, g)
	}
	for _, u := range ug.GetUsers() {
		records = append(records, u)
	}
	return json.Marshal(records)
}

// LoadFromJSON parses an array of principal records and adds them to the
// container, dispatching on the principalTypeEnum suffix. Records with an
// unknown discriminator are skipped and reported as warnings. Duplicate
// entries fail, matching the default duplicate policy.
func (ug *UsersAndGroups) LoadFromJSON(data []byte) ([]string, error) {
	var records []principalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, NewMalformedRecordError("LoadFromJSON", err)
	}

	var warnings []string
	for _, r := range records {
		switch {
		case strings.HasSuffix(r.PrincipalTypeEnum, TypeSuffixGroup):
			if err := ug.AddGroup(r.toGroup(), RaiseErrorOnDuplicate); err != nil {
				return warnings, err
			}
		case strings.HasSuffix(r.PrincipalTypeEnum, TypeSuffixUser):
			if err := ug.AddUser(r.toUser(), RaiseErrorOnDuplicate); err != nil {
				return warnings, err
			}
		default:
			warnings = append(warnings, fmt.Sprintf(
				"unable to load %q as a user or group: missing or unknown principalTypeEnum value %q",
				r.Name, r.PrincipalTypeEnum))
		}
	}
	return warnings, nil
}

// ParseRecords builds a fresh container from an array of principal
// records, as returned by the remote get-all endpoint. Duplicate users are
// reported as warnings and the first occurrence kept.
func ParseRecords(data []byte) (*UsersAndGroups, []string, error) {
	var records []principalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, NewMalformedRecordError("ParseRecords", err)
	}

	ug := NewUsersAndGroups()
	var warnings []string
	for _, r := range records {
		if strings.HasSuffix(r.PrincipalTypeEnum, TypeSuffixUser) {
			u := r.toUser()
			if ug.HasUser(u.Name) {
				warnings = append(warnings, fmt.Sprintf("duplicate user %q already exists", u.Name))
				continue
			}
			if err := ug.AddUser(u, RaiseErrorOnDuplicate); err != nil {
				return nil, warnings, err
			}
		} else {
			if err := ug.AddGroup(r.toGroup(), IgnoreOnDuplicate); err != nil {
				return nil, warnings, err
			}
		}
	}
	return ug, warnings, nil
}

func (r principalRecord) toUser() *User {
	u := NewUser(r.Name)

	if r.DisplayName != "" {
		u.DisplayName = r.DisplayName
	}
	u.Password = r.Password
	u.Mail = r.Mail
	for _, g := range r.GroupNames {
		u.AddGroup(g)
	}
	u.Visibility = Visibility(r.Visibility)
	u.Created = rawToString(r.Created)
	u.ID = r.ID

	return u
}

func (r principalRecord) toGroup() *Group {
	g := NewGroup(r.Name)

	if r.DisplayName != "" {
		g.DisplayName = r.DisplayName
	}
	g.Description = r.Description
	for _, p := range r.GroupNames {
		g.AddGroup(p)
	}
	g.Visibility = Visibility(r.Visibility)
	g.Privileges = append([]string(nil), r.Privileges...)
	g.Created = rawToString(r.Created)

	return g
}

// rawToString renders an opaque JSON scalar (the remote sends created
// timestamps both as numbers and strings) into its textual form.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
