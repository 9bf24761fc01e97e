// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sync

import (
	"context"

	"github.com/nimbusid/usersync/pkg/principal"
)

// PrivilegeOp selects the direction of a group privilege call.
type PrivilegeOp string

const (
	PrivilegeAdd    PrivilegeOp = "add"
	PrivilegeRemove PrivilegeOp = "remove"
)

// TransportInterface is the remote identity service collaborator. The
// orchestrator sequences these calls but never talks to the network
// itself.
type TransportInterface interface {
	// GetAll returns the remote users and groups.
	GetAll(ctx context.Context) (*principal.UsersAndGroups, error)
	// Sync pushes a container to the remote. With applyChanges false the
	// remote reports what would change without applying it.
	Sync(ctx context.Context, ugs *principal.UsersAndGroups, applyChanges, removeDeleted bool) error
	// SetGroupPrivilege adds or removes one privilege on a list of groups.
	SetGroupPrivilege(ctx context.Context, groups []string, privilege string, op PrivilegeOp) error
	// UpdatePassword sets a user's password. Returns ErrPasswordUnchanged
	// when the remote rejects the update because the password did not
	// change.
	UpdatePassword(ctx context.Context, userID, adminPassword, newPassword string) error
	// DeleteUsers deletes users by name. Names that do not exist remotely
	// are skipped with a warning.
	DeleteUsers(ctx context.Context, names []string) error
	// DeleteGroups deletes groups by name, with the same skip semantics.
	DeleteGroups(ctx context.Context, names []string) error
}
