// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sync

import (
	"github.com/nimbusid/usersync/pkg/principal"
)

// CreateMissingGroups adds a definition to target for every group
// referenced by one of its users but not defined in it. When the original
// (remote) state has the group, that definition is reused so existing
// attributes survive; otherwise a minimal placeholder is synthesized.
// Explicit definitions in target are never overwritten.
func CreateMissingGroups(original, target *principal.UsersAndGroups) {
	var missing []string
	seen := make(map[string]struct{})
	for _, user := range target.GetUsers() {
		for _, name := range user.GroupNames {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			if target.GetGroup(name) == nil {
				missing = append(missing, name)
			}
		}
	}

	for _, name := range missing {
		if original != nil {
			if old := original.GetGroup(name); old != nil {
				target.AddGroup(old, principal.IgnoreOnDuplicate)
				continue
			}
		}
		g := principal.NewGroup(name)
		g.Description = "Implicitly created group."
		target.AddGroup(g, principal.IgnoreOnDuplicate)
	}
}

// MergeGroups unions each original user's group references into the
// matching target user, appending without deduplication, and copies every
// referenced group definition found in original into target under the
// overwrite policy so its attributes travel along.
func MergeGroups(original, target *principal.UsersAndGroups) {
	if original == nil {
		return
	}
	for _, user := range target.GetUsers() {
		old := original.GetUser(user.Name)
		if old == nil {
			continue
		}
		user.GroupNames = append(user.GroupNames, old.GroupNames...)

		for _, name := range user.GroupNames {
			if g := original.GetGroup(name); g != nil {
				target.AddGroup(g, principal.OverwriteOnDuplicate)
			}
		}
	}
}

// Batches partitions the container's users into fixed-size ordered slices
// and builds one minimal container per slice holding those users plus the
// groups they reference. Users keep their first-come order; referenced
// groups are added under the ignore policy so shared groups appear once.
func Batches(ugs *principal.UsersAndGroups, batchSize int) []*principal.UsersAndGroups {
	users := ugs.GetUsers()

	var batches []*principal.UsersAndGroups
	for start := 0; start < len(users); start += batchSize {
		end := start + batchSize
		if end > len(users) {
			end = len(users)
		}

		batch := principal.NewUsersAndGroups()
		for _, user := range users[start:end] {
			batch.AddUser(user, principal.RaiseErrorOnDuplicate)
			for _, name := range user.GroupNames {
				if g := ugs.GetGroup(name); g != nil {
					batch.AddGroup(g, principal.IgnoreOnDuplicate)
				}
			}
		}
		batches = append(batches, batch)
	}
	return batches
}
