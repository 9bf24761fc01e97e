// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package principal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUserPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy DuplicatePolicy
		check  func(t *testing.T, ug *UsersAndGroups, err error)
	}{
		{
			name:   "RaiseError",
			policy: RaiseErrorOnDuplicate,
			check: func(t *testing.T, ug *UsersAndGroups, err error) {
				require.Error(t, err)
				var pErr *PrincipalError
				require.ErrorAs(t, err, &pErr)
				assert.Equal(t, ErrCodeDuplicateUser, pErr.Code)
				assert.Equal(t, []string{"first"}, ug.GetUser("alice").GroupNames)
			},
		},
		{
			name:   "Ignore",
			policy: IgnoreOnDuplicate,
			check: func(t *testing.T, ug *UsersAndGroups, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"first"}, ug.GetUser("alice").GroupNames)
			},
		},
		{
			name:   "Overwrite",
			policy: OverwriteOnDuplicate,
			check: func(t *testing.T, ug *UsersAndGroups, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"second"}, ug.GetUser("alice").GroupNames)
			},
		},
		{
			name:   "Update",
			policy: UpdateOnDuplicate,
			check: func(t *testing.T, ug *UsersAndGroups, err error) {
				require.NoError(t, err)
				// the incoming user wins and inherits the stored references
				assert.Equal(t, []string{"second", "first"}, ug.GetUser("alice").GroupNames)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ug := NewUsersAndGroups()

			first := NewUser("alice")
			first.AddGroup("first")
			require.NoError(t, ug.AddUser(first, RaiseErrorOnDuplicate))

			second := NewUser("alice")
			second.AddGroup("second")
			err := ug.AddUser(second, test.policy)

			test.check(t, ug, err)
			assert.Equal(t, 1, ug.NumberUsers())
		})
	}
}

func TestAddGroupPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy DuplicatePolicy
		check  func(t *testing.T, ug *UsersAndGroups, err error)
	}{
		{
			name:   "RaiseError",
			policy: RaiseErrorOnDuplicate,
			check: func(t *testing.T, ug *UsersAndGroups, err error) {
				require.Error(t, err)
				var pErr *PrincipalError
				require.ErrorAs(t, err, &pErr)
				assert.Equal(t, ErrCodeDuplicateGroup, pErr.Code)
			},
		},
		{
			name:   "Ignore",
			policy: IgnoreOnDuplicate,
			check: func(t *testing.T, ug *UsersAndGroups, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"first"}, ug.GetGroup("Staff").GroupNames)
			},
		},
		{
			name:   "Overwrite",
			policy: OverwriteOnDuplicate,
			check: func(t *testing.T, ug *UsersAndGroups, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"second"}, ug.GetGroup("Staff").GroupNames)
			},
		},
		{
			name:   "Update",
			policy: UpdateOnDuplicate,
			check: func(t *testing.T, ug *UsersAndGroups, err error) {
				require.NoError(t, err)
				// the stored group is kept and the incoming parents appended
				assert.Equal(t, []string{"first", "second"}, ug.GetGroup("Staff").GroupNames)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ug := NewUsersAndGroups()

			first := NewGroup("Staff")
			first.AddGroup("first")
			require.NoError(t, ug.AddGroup(first, RaiseErrorOnDuplicate))

			second := NewGroup("Staff")
			second.AddGroup("second")
			err := ug.AddGroup(second, test.policy)

			test.check(t, ug, err)
			assert.Equal(t, 1, ug.NumberGroups())
		})
	}
}

func TestUserKeysAreCaseInsensitive(t *testing.T) {
	ug := NewUsersAndGroups()
	require.NoError(t, ug.AddUser(NewUser("Alice"), RaiseErrorOnDuplicate))

	assert.True(t, ug.HasUser("alice"))
	assert.True(t, ug.HasUser("ALICE"))
	require.NotNil(t, ug.GetUser("aLiCe"))
	assert.Equal(t, "Alice", ug.GetUser("alice").Name)

	err := ug.AddUser(NewUser("ALICE"), RaiseErrorOnDuplicate)
	assert.Error(t, err)
}

func TestGroupKeysAreCaseSensitive(t *testing.T) {
	ug := NewUsersAndGroups()
	require.NoError(t, ug.AddGroup(NewGroup("Staff"), RaiseErrorOnDuplicate))
	require.NoError(t, ug.AddGroup(NewGroup("staff"), RaiseErrorOnDuplicate))

	assert.Equal(t, 2, ug.NumberGroups())
	assert.True(t, ug.HasGroup("Staff"))
	assert.True(t, ug.HasGroup("staff"))
	assert.False(t, ug.HasGroup("STAFF"))
}

func TestInsertionOrderSurvivesRemoval(t *testing.T) {
	ug := NewUsersAndGroups()
	for _, name := range []string{"u1", "u2", "u3"} {
		require.NoError(t, ug.AddUser(NewUser(name), RaiseErrorOnDuplicate))
	}

	removed := ug.RemoveUser("u2")
	require.NotNil(t, removed)
	assert.Equal(t, "u2", removed.Name)
	assert.Nil(t, ug.RemoveUser("u2"))

	users := ug.GetUsers()
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].Name)
	assert.Equal(t, "u3", users[1].Name)
}

func TestGetUsersIsASnapshot(t *testing.T) {
	ug := NewUsersAndGroups()
	require.NoError(t, ug.AddUser(NewUser("alice"), RaiseErrorOnDuplicate))

	snapshot := ug.GetUsers()
	require.NoError(t, ug.AddUser(NewUser("bob"), RaiseErrorOnDuplicate))

	assert.Len(t, snapshot, 1)
	assert.Len(t, ug.GetUsers(), 2)
}

func TestAddGroupCopiesParentReferences(t *testing.T) {
	parents := []string{"p1"}
	g := NewGroup("Staff")
	g.GroupNames = parents

	ug := NewUsersAndGroups()
	require.NoError(t, ug.AddGroup(g, RaiseErrorOnDuplicate))

	parents[0] = "mutated"
	assert.Equal(t, []string{"p1"}, ug.GetGroup("Staff").GroupNames)
}

func TestAddUserUnknownPolicy(t *testing.T) {
	ug := NewUsersAndGroups()
	require.NoError(t, ug.AddUser(NewUser("alice"), RaiseErrorOnDuplicate))

	err := ug.AddUser(NewUser("alice"), DuplicatePolicy(42))
	require.Error(t, err)
	var pErr *PrincipalError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, ErrCodeUnknownPolicy, pErr.Code)
}
