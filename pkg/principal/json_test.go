// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package principal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONGroupsFirst(t *testing.T) {
	ug := NewUsersAndGroups()
	u := NewUser("alice")
	u.AddGroup("Staff")
	require.NoError(t, ug.AddUser(u, RaiseErrorOnDuplicate))
	require.NoError(t, ug.AddGroup(NewGroup("Staff"), RaiseErrorOnDuplicate))

	data, err := ug.ToJSON()
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)

	assert.Equal(t, "Staff", records[0]["name"])
	assert.Equal(t, TypeLocalGroup, records[0]["principalTypeEnum"])
	assert.Equal(t, "alice", records[1]["name"])
	assert.Equal(t, TypeLocalUser, records[1]["principalTypeEnum"])
}

func TestToJSONOmitsEmptyFields(t *testing.T) {
	ug := NewUsersAndGroups()
	u := NewUser("alice")
	u.Visibility = ""
	u.DisplayName = ""
	require.NoError(t, ug.AddUser(u, RaiseErrorOnDuplicate))

	data, err := ug.ToJSON()
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)

	assert.NotContains(t, records[0], "password")
	assert.NotContains(t, records[0], "mail")
	assert.NotContains(t, records[0], "groupNames")
	assert.NotContains(t, records[0], "displayName")
	assert.NotContains(t, records[0], "visibility")
	assert.Contains(t, records[0], "principalTypeEnum")
}

func TestLoadFromJSON(t *testing.T) {
	data := []byte(`[
		{"name": "Staff", "principalTypeEnum": "LOCAL_GROUP", "description": "All staff"},
		{"name": "alice", "principalTypeEnum": "LOCAL_USER", "groupNames": ["Staff"], "mail": "alice@example.com"},
		{"name": "bob", "principalTypeEnum": "LOCAL_USER", "displayName": "Bob B."}
	]`)

	ug := NewUsersAndGroups()
	warnings, err := ug.LoadFromJSON(data)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 2, ug.NumberUsers())
	assert.Equal(t, 1, ug.NumberGroups())

	alice := ug.GetUser("alice")
	require.NotNil(t, alice)
	assert.Equal(t, "alice@example.com", alice.Mail)
	assert.Equal(t, []string{"Staff"}, alice.GroupNames)
	// display name falls back to the login name when the record has none
	assert.Equal(t, "alice", alice.DisplayName)
	assert.Equal(t, "Bob B.", ug.GetUser("bob").DisplayName)

	assert.Equal(t, "All staff", ug.GetGroup("Staff").Description)
}

func TestLoadFromJSONUnknownDiscriminator(t *testing.T) {
	data := []byte(`[
		{"name": "what", "principalTypeEnum": "SOMETHING_ELSE"},
		{"name": "alice", "principalTypeEnum": "LOCAL_USER"}
	]`)

	ug := NewUsersAndGroups()
	warnings, err := ug.LoadFromJSON(data)
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "what")
	assert.Contains(t, warnings[0], "SOMETHING_ELSE")
	assert.Equal(t, 1, ug.NumberUsers())
}

func TestLoadFromJSONDuplicateFails(t *testing.T) {
	data := []byte(`[
		{"name": "alice", "principalTypeEnum": "LOCAL_USER"},
		{"name": "Alice", "principalTypeEnum": "LOCAL_USER"}
	]`)

	ug := NewUsersAndGroups()
	_, err := ug.LoadFromJSON(data)
	require.Error(t, err)
	var pErr *PrincipalError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, ErrCodeDuplicateUser, pErr.Code)
}

func TestLoadFromJSONMalformed(t *testing.T) {
	ug := NewUsersAndGroups()
	_, err := ug.LoadFromJSON([]byte(`{"not": "an array"}`))
	require.Error(t, err)
	var pErr *PrincipalError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, ErrCodeMalformedRecord, pErr.Code)
}

func TestRoundTrip(t *testing.T) {
	ug := NewUsersAndGroups()
	u := NewUser("alice")
	u.Mail = "alice@example.com"
	u.AddGroup("Staff")
	require.NoError(t, ug.AddUser(u, RaiseErrorOnDuplicate))
	g := NewGroup("Staff")
	g.Privileges = []string{"DEVELOPER"}
	require.NoError(t, ug.AddGroup(g, RaiseErrorOnDuplicate))

	data, err := ug.ToJSON()
	require.NoError(t, err)

	loaded := NewUsersAndGroups()
	warnings, err := loaded.LoadFromJSON(data)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, ug.GetUser("alice"), loaded.GetUser("alice"))
	assert.Equal(t, ug.GetGroup("Staff"), loaded.GetGroup("Staff"))
}

func TestParseRecords(t *testing.T) {
	// remote responses use different type prefixes and send created
	// timestamps as numbers
	data := []byte(`[
		{"name": "alice", "principalTypeEnum": "REMOTE_USER", "created": 1700000000, "id": "id-1"},
		{"name": "alice", "principalTypeEnum": "REMOTE_USER"},
		{"name": "Staff", "principalTypeEnum": "REMOTE_GROUP"},
		{"name": "Staff", "principalTypeEnum": "REMOTE_GROUP"}
	]`)

	ug, warnings, err := ParseRecords(data)
	require.NoError(t, err)

	// the duplicate user is warned and skipped, the duplicate group ignored
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "alice")

	assert.Equal(t, 1, ug.NumberUsers())
	assert.Equal(t, 1, ug.NumberGroups())
	assert.Equal(t, "1700000000", ug.GetUser("alice").Created)
	assert.Equal(t, "id-1", ug.GetUser("alice").ID)
}
