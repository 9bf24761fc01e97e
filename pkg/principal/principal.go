// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package principal

import "strings"

// Visibility controls whether a principal can be shared with.
type Visibility string

const (
	VisibilityDefault      Visibility = "DEFAULT"
	VisibilityNonShareable Visibility = "NON_SHARABLE"
)

// Principal type discriminators used on the wire. Remote variants may use a
// different prefix, so dispatch is on the suffix only.
const (
	TypeSuffixUser  = "_USER"
	TypeSuffixGroup = "_GROUP"

	TypeLocalUser  = "LOCAL_USER"
	TypeLocalGroup = "LOCAL_GROUP"
)

// User represents a user principal known to the remote identity service.
// Group membership is held as group name references, never as pointers, so
// a user can reference a group that has not been loaded yet.
type User struct {
	PrincipalType string     `json:"principalTypeEnum"`
	Name          string     `json:"name"`
	DisplayName   string     `json:"displayName,omitempty"`
	Password      string     `json:"password,omitempty"`
	Mail          string     `json:"mail,omitempty"`
	GroupNames    []string   `json:"groupNames,omitempty"`
	Visibility    Visibility `json:"visibility,omitempty"`
	Created       string     `json:"created,omitempty"`
	ID            string     `json:"id,omitempty"`
}

// NewUser creates a user with the name trimmed and the display name
// defaulted to the login name. Other fields are set directly by the caller.
func NewUser(name string) *User {
	u := new(User)

	u.PrincipalType = TypeLocalUser
	u.Name = strings.TrimSpace(name)
	u.DisplayName = u.Name
	u.Visibility = VisibilityDefault

	return u
}

// AddGroup appends a group reference if it is not already present.
func (u *User) AddGroup(groupName string) {
	for _, g := range u.GroupNames {
		if g == groupName {
			return
		}
	}
	u.GroupNames = append(u.GroupNames, groupName)
}

// Group represents a group principal. Parent membership follows the same
// name-reference scheme as User.
type Group struct {
	PrincipalType string     `json:"principalTypeEnum"`
	Name          string     `json:"name"`
	DisplayName   string     `json:"displayName,omitempty"`
	Description   string     `json:"description,omitempty"`
	GroupNames    []string   `json:"groupNames,omitempty"`
	Visibility    Visibility `json:"visibility,omitempty"`
	Privileges    []string   `json:"privileges,omitempty"`
	Created       string     `json:"created,omitempty"`
}

// NewGroup creates a group with the name trimmed and the display name
// defaulted to the group name.
func NewGroup(name string) *Group {
	g := new(Group)

	g.PrincipalType = TypeLocalGroup
	g.Name = strings.TrimSpace(name)
	g.DisplayName = g.Name
	g.Visibility = VisibilityDefault

	return g
}

// AddGroup appends a parent group reference if it is not already present.
func (g *Group) AddGroup(groupName string) {
	for _, p := range g.GroupNames {
		if p == groupName {
			return
		}
	}
	g.GroupNames = append(g.GroupNames, groupName)
}

// HasPrivilege reports whether the group's desired state includes the
// given privilege code.
func (g *Group) HasPrivilege(privilege string) bool {
	for _, p := range g.Privileges {
		if p == privilege {
			return true
		}
	}
	return false
}
