// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package runs exposes sync runs over HTTP: a trigger endpoint and the
// outcome of the last run.
package runs

import (
	"context"

	"github.com/nimbusid/usersync/pkg/principal"
	"github.com/nimbusid/usersync/pkg/sync"
)

type ServiceInterface interface {
	// Trigger starts a sync run with the configured source and options.
	// Only one run is active at a time.
	Trigger(ctx context.Context) (*RunResult, error)
	// Last returns the most recent run outcome, or nil if none ran yet.
	Last(ctx context.Context) *RunResult
}

// SyncerInterface is the orchestrator the service drives.
type SyncerInterface interface {
	Run(ctx context.Context, ugs *principal.UsersAndGroups, opts sync.Options) error
}
