// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sync

import (
	"testing"

	"github.com/nimbusid/usersync/pkg/principal"
)

func TestCreateMissingGroups(t *testing.T) {
	original := principal.NewUsersAndGroups()
	remote := principal.NewGroup("Remote")
	remote.Description = "A group that already exists remotely."
	original.AddGroup(remote, principal.RaiseErrorOnDuplicate)

	target := principal.NewUsersAndGroups()
	u := principal.NewUser("alice")
	u.AddGroup("Remote")
	u.AddGroup("Fresh")
	u.AddGroup("Defined")
	target.AddUser(u, principal.RaiseErrorOnDuplicate)
	defined := principal.NewGroup("Defined")
	defined.Description = "Explicitly defined."
	target.AddGroup(defined, principal.RaiseErrorOnDuplicate)

	CreateMissingGroups(original, target)

	if g := target.GetGroup("Remote"); g == nil || g.Description != "A group that already exists remotely." {
		t.Fatalf("expected the remote definition to be reused, got %+v", g)
	}
	if g := target.GetGroup("Fresh"); g == nil || g.Description != "Implicitly created group." {
		t.Fatalf("expected a synthesized placeholder, got %+v", g)
	}
	if g := target.GetGroup("Defined"); g.Description != "Explicitly defined." {
		t.Fatalf("expected the explicit definition to survive, got %+v", g)
	}
	if !target.Validate().Valid {
		t.Fatal("expected the container to validate after group creation")
	}
}

func TestCreateMissingGroupsNilOriginal(t *testing.T) {
	target := principal.NewUsersAndGroups()
	u := principal.NewUser("alice")
	u.AddGroup("Fresh")
	target.AddUser(u, principal.RaiseErrorOnDuplicate)

	CreateMissingGroups(nil, target)

	if target.GetGroup("Fresh") == nil {
		t.Fatal("expected the group to be synthesized without remote state")
	}
}

func TestMergeGroups(t *testing.T) {
	original := principal.NewUsersAndGroups()
	old := principal.NewUser("alice")
	old.AddGroup("Legacy")
	original.AddUser(old, principal.RaiseErrorOnDuplicate)
	legacy := principal.NewGroup("Legacy")
	legacy.Description = "Kept from the remote."
	original.AddGroup(legacy, principal.RaiseErrorOnDuplicate)

	target := principal.NewUsersAndGroups()
	u := principal.NewUser("alice")
	u.AddGroup("New")
	target.AddUser(u, principal.RaiseErrorOnDuplicate)
	target.AddGroup(principal.NewGroup("New"), principal.RaiseErrorOnDuplicate)

	other := principal.NewUser("bob")
	target.AddUser(other, principal.RaiseErrorOnDuplicate)

	MergeGroups(original, target)

	merged := target.GetUser("alice")
	if len(merged.GroupNames) != 2 || merged.GroupNames[0] != "New" || merged.GroupNames[1] != "Legacy" {
		t.Fatalf("expected remote groups appended, got %v", merged.GroupNames)
	}
	if g := target.GetGroup("Legacy"); g == nil || g.Description != "Kept from the remote." {
		t.Fatalf("expected the remote group definition to travel along, got %+v", g)
	}
	if len(target.GetUser("bob").GroupNames) != 0 {
		t.Fatal("expected users unknown to the remote to be untouched")
	}
}

func TestBatches(t *testing.T) {
	ugs := principal.NewUsersAndGroups()
	shared := principal.NewGroup("Shared")
	ugs.AddGroup(shared, principal.RaiseErrorOnDuplicate)
	ugs.AddGroup(principal.NewGroup("OnlyU5"), principal.RaiseErrorOnDuplicate)

	for _, name := range []string{"u1", "u2", "u3", "u4", "u5"} {
		u := principal.NewUser(name)
		u.AddGroup("Shared")
		if name == "u5" {
			u.AddGroup("OnlyU5")
		}
		ugs.AddUser(u, principal.RaiseErrorOnDuplicate)
	}

	batches := Batches(ugs, 2)

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	for i, expected := range []int{2, 2, 1} {
		if got := batches[i].NumberUsers(); got != expected {
			t.Fatalf("batch %d: expected %d users, got %d", i, expected, got)
		}
		if !batches[i].HasGroup("Shared") {
			t.Fatalf("batch %d: expected the shared group", i)
		}
	}

	if batches[0].HasGroup("OnlyU5") {
		t.Fatal("expected unreferenced groups to stay out of early batches")
	}
	if !batches[2].HasGroup("OnlyU5") {
		t.Fatal("expected the last batch to carry u5's group")
	}

	if name := batches[2].GetUsers()[0].Name; name != "u5" {
		t.Fatalf("expected insertion order preserved, got %s", name)
	}
}

func TestBatchesLargerThanUsers(t *testing.T) {
	ugs := principal.NewUsersAndGroups()
	ugs.AddUser(principal.NewUser("alice"), principal.RaiseErrorOnDuplicate)

	batches := Batches(ugs, 100)
	if len(batches) != 1 || batches[0].NumberUsers() != 1 {
		t.Fatalf("expected a single batch with one user, got %v", batches)
	}
}
