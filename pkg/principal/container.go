// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package principal

import "strings"

// DuplicatePolicy controls what happens when a principal is added under a
// key that already exists in the container.
type DuplicatePolicy int

const (
	// RaiseErrorOnDuplicate fails the insert. This is the default.
	RaiseErrorOnDuplicate DuplicatePolicy = iota
	// IgnoreOnDuplicate keeps the existing entry unchanged.
	IgnoreOnDuplicate
	// OverwriteOnDuplicate replaces the existing entry with the new one.
	OverwriteOnDuplicate
	// UpdateOnDuplicate merges group references. For users the incoming
	// user wins and inherits the existing user's group references; for
	// groups the stored group is kept and the incoming parents are
	// appended onto it. Appends are not deduplicated.
	UpdateOnDuplicate
)

// UsersAndGroups owns a set of users and a set of groups, each uniquely
// keyed and iterated in insertion order. User keys are the lowercased user
// name; group keys are the exact group name.
type UsersAndGroups struct {
	users      map[string]*User
	userOrder  []string
	groups     map[string]*Group
	groupOrder []string
}

func NewUsersAndGroups() *UsersAndGroups {
	ug := new(UsersAndGroups)

	ug.users = make(map[string]*User)
	ug.groups = make(map[string]*Group)

	return ug
}

// AddUser adds a user to the container. The container does not copy the
// user. Replacements keep the original insertion position.
func (ug *UsersAndGroups) AddUser(u *User, policy DuplicatePolicy) error {
	key := strings.ToLower(u.Name)

	existing, ok := ug.users[key]
	if !ok {
		ug.users[key] = u
		ug.userOrder = append(ug.userOrder, key)
		return nil
	}

	switch policy {
	case RaiseErrorOnDuplicate:
		return NewDuplicateUserError(existing.Name, "AddUser")
	case IgnoreOnDuplicate:
	case OverwriteOnDuplicate:
		ug.users[key] = u
	case UpdateOnDuplicate:
		u.GroupNames = append(u.GroupNames, existing.GroupNames...)
		ug.users[key] = u
	default:
		return NewUnknownPolicyError(policy, "AddUser")
	}
	return nil
}

// HasUser reports whether a user with the given name is in the container.
// User names are case-insensitive.
func (ug *UsersAndGroups) HasUser(name string) bool {
	_, ok := ug.users[strings.ToLower(name)]
	return ok
}

// GetUser returns the user with the given name, or nil if not present.
func (ug *UsersAndGroups) GetUser(name string) *User {
	return ug.users[strings.ToLower(name)]
}

// RemoveUser removes and returns the user with the given name, or nil if
// not present.
func (ug *UsersAndGroups) RemoveUser(name string) *User {
	key := strings.ToLower(name)
	u, ok := ug.users[key]
	if !ok {
		return nil
	}
	delete(ug.users, key)
	ug.userOrder = removeKey(ug.userOrder, key)
	return u
}

func (ug *UsersAndGroups) NumberUsers() int {
	return len(ug.users)
}

// GetUsers returns the users in insertion order. The slice is a snapshot;
// the users themselves are shared.
func (ug *UsersAndGroups) GetUsers() []*User {
	users := make([]*User, 0, len(ug.userOrder))
	for _, key := range ug.userOrder {
		users = append(users, ug.users[key])
	}
	return users
}

// AddGroup adds a group to the container. On first insertion the group's
// parent reference slice is copied, so later mutation of the caller's
// slice does not leak into the container.
func (ug *UsersAndGroups) AddGroup(g *Group, policy DuplicatePolicy) error {
	existing, ok := ug.groups[g.Name]
	if !ok {
		if g.GroupNames != nil {
			g.GroupNames = append([]string(nil), g.GroupNames...)
		}
		ug.groups[g.Name] = g
		ug.groupOrder = append(ug.groupOrder, g.Name)
		return nil
	}

	switch policy {
	case RaiseErrorOnDuplicate:
		return NewDuplicateGroupError(g.Name, "AddGroup")
	case IgnoreOnDuplicate:
	case OverwriteOnDuplicate:
		ug.groups[g.Name] = g
	case UpdateOnDuplicate:
		existing.GroupNames = append(existing.GroupNames, g.GroupNames...)
	default:
		return NewUnknownPolicyError(policy, "AddGroup")
	}
	return nil
}

// HasGroup reports whether a group with the given name is in the
// container. Group names are case-sensitive.
func (ug *UsersAndGroups) HasGroup(name string) bool {
	_, ok := ug.groups[name]
	return ok
}

// GetGroup returns the group with the given name, or nil if not present.
func (ug *UsersAndGroups) GetGroup(name string) *Group {
	return ug.groups[name]
}

// RemoveGroup removes and returns the group with the given name, or nil if
// not present.
func (ug *UsersAndGroups) RemoveGroup(name string) *Group {
	g, ok := ug.groups[name]
	if !ok {
		return nil
	}
	delete(ug.groups, name)
	ug.groupOrder = removeKey(ug.groupOrder, name)
	return g
}

func (ug *UsersAndGroups) NumberGroups() int {
	return len(ug.groups)
}

// GetGroups returns the groups in insertion order. The slice is a
// snapshot; the groups themselves are shared.
func (ug *UsersAndGroups) GetGroups() []*Group {
	groups := make([]*Group, 0, len(ug.groupOrder))
	for _, name := range ug.groupOrder {
		groups = append(groups, ug.groups[name])
	}
	return groups
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
