// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package principal

import "fmt"

// ValidationResult reports referential integrity of a container. Issues
// holds one entry per dangling group reference found.
type ValidationResult struct {
	Valid  bool
	Issues []string
}

// Validate checks that every group referenced by a user, and every parent
// group referenced by a group, exists in the container. It always walks
// the full structure and reports every violation, not just the first.
func (ug *UsersAndGroups) Validate() ValidationResult {
	result := ValidationResult{Valid: true}

	for _, user := range ug.GetUsers() {
		for _, parent := range user.GroupNames {
			if !ug.HasGroup(parent) {
				result.Valid = false
				result.Issues = append(result.Issues, fmt.Sprintf(
					"user group %q for user %q does not exist", parent, user.Name))
			}
		}
	}

	for _, group := range ug.GetGroups() {
		for _, parent := range group.GroupNames {
			if !ug.HasGroup(parent) {
				result.Valid = false
				result.Issues = append(result.Issues, fmt.Sprintf(
					"parent group %q for group %q does not exist", parent, group.Name))
			}
		}
	}

	return result
}
