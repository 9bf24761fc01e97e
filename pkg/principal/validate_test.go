// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package principal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmptyContainer(t *testing.T) {
	result := NewUsersAndGroups().Validate()
	assert.True(t, result.Valid)
	assert.Empty(t, result.Issues)
}

func TestValidateReportsEveryDanglingReference(t *testing.T) {
	ug := NewUsersAndGroups()

	alice := NewUser("alice")
	alice.AddGroup("Exists")
	alice.AddGroup("Ghost1")
	alice.AddGroup("Ghost2")
	require.NoError(t, ug.AddUser(alice, RaiseErrorOnDuplicate))

	bob := NewUser("bob")
	bob.AddGroup("Ghost1")
	require.NoError(t, ug.AddUser(bob, RaiseErrorOnDuplicate))

	require.NoError(t, ug.AddGroup(NewGroup("Exists"), RaiseErrorOnDuplicate))

	child := NewGroup("Child")
	child.AddGroup("GhostParent")
	require.NoError(t, ug.AddGroup(child, RaiseErrorOnDuplicate))

	result := ug.Validate()
	require.False(t, result.Valid)
	require.Len(t, result.Issues, 4)

	assert.Contains(t, result.Issues[0], `user group "Ghost1" for user "alice"`)
	assert.Contains(t, result.Issues[1], `user group "Ghost2" for user "alice"`)
	assert.Contains(t, result.Issues[2], `user group "Ghost1" for user "bob"`)
	assert.Contains(t, result.Issues[3], `parent group "GhostParent" for group "Child"`)
}

func TestValidateGroupReferencesAreCaseSensitive(t *testing.T) {
	ug := NewUsersAndGroups()
	u := NewUser("alice")
	u.AddGroup("staff")
	require.NoError(t, ug.AddUser(u, RaiseErrorOnDuplicate))
	require.NoError(t, ug.AddGroup(NewGroup("Staff"), RaiseErrorOnDuplicate))

	result := ug.Validate()
	require.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], `"staff"`)
}
