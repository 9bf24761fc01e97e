// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring"
	"github.com/nimbusid/usersync/internal/tracing"
	"github.com/nimbusid/usersync/pkg/principal"
)

// Options configures one sync run.
type Options struct {
	// ApplyChanges pushes the changes. When false this is a dry run: the
	// remote sync call reports what would happen, and privilege and
	// password calls are not issued.
	ApplyChanges bool
	// RemoveDeleted deletes remote users absent from the pushed set.
	// Mutually exclusive with BatchSize.
	RemoveDeleted bool
	// BatchSize > 0 partitions users into fixed-size batches, one sync
	// call each.
	BatchSize int
	// CreateGroups adds definitions for groups users reference but the
	// input does not define.
	CreateGroups bool
	// MergeGroups unions remote group membership into the pushed users
	// instead of replacing it.
	MergeGroups bool
	// SetPrivileges runs the privilege differ after the sync.
	SetPrivileges bool
	// UpdatePasswords pushes per-user passwords after the sync, for users
	// that carry one.
	UpdatePasswords bool
	// AdminPassword authorizes password updates.
	AdminPassword string
}

func (o Options) validate() error {
	if o.RemoveDeleted && o.BatchSize > 0 {
		return ErrBatchWithRemoveDeleted
	}
	return nil
}

// Syncer sequences reconciliation, validation, dispatch, privilege diff
// and password updates into one sync run against the transport.
type Syncer struct {
	transport TransportInterface
	differ    *PrivilegeDiffer

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Run executes a sync of ugs against the remote. The container is
// mutated in place by the reconciliation stages. Configuration and
// validation failures abort before any destructive call; privilege and
// password failures are best-effort.
func (s *Syncer) Run(ctx context.Context, ugs *principal.UsersAndGroups, opts Options) error {
	ctx, span := s.tracer.Start(ctx, "sync.Syncer.Run")
	defer span.End()

	if err := opts.validate(); err != nil {
		return err
	}

	runID := uuid.New().String()
	s.logger.Infof("sync %s: %d users, %d groups", runID, ugs.NumberUsers(), ugs.NumberGroups())
	if !opts.ApplyChanges {
		s.logger.Info("dry run: changes will not be applied")
	}

	var original *principal.UsersAndGroups
	if opts.CreateGroups || opts.MergeGroups {
		var err error
		original, err = s.transport.GetAll(ctx)
		if err != nil {
			return &SyncError{Stage: StageFetch, Underlying: err}
		}
	}

	if opts.CreateGroups {
		CreateMissingGroups(original, ugs)
	}
	if opts.MergeGroups {
		MergeGroups(original, ugs)
	}

	if result := ugs.Validate(); !result.Valid {
		return &ValidationError{Issues: result.Issues}
	}

	if opts.BatchSize > 0 {
		batches := Batches(ugs, opts.BatchSize)
		for i, batch := range batches {
			s.logger.Infof("sync %s: batch %d/%d with %d users and %d groups",
				runID, i+1, len(batches), batch.NumberUsers(), batch.NumberGroups())
			if err := s.transport.Sync(ctx, batch, opts.ApplyChanges, opts.RemoveDeleted); err != nil {
				return &SyncError{Stage: StageSync, Underlying: err}
			}
		}
	} else {
		if err := s.transport.Sync(ctx, ugs, opts.ApplyChanges, opts.RemoveDeleted); err != nil {
			return &SyncError{Stage: StageSync, Underlying: err}
		}
	}

	if opts.SetPrivileges {
		if err := s.differ.Apply(ctx, ugs, opts.ApplyChanges); err != nil {
			return err
		}
	}

	if opts.UpdatePasswords && opts.ApplyChanges {
		s.updatePasswords(ctx, ugs, opts.AdminPassword)
	}

	s.logger.Infof("sync %s: done", runID)
	return nil
}

// updatePasswords pushes a password update for every user carrying one.
// A rejection because the password did not change is a warning; any other
// failure is logged for that user and the pass continues.
func (s *Syncer) updatePasswords(ctx context.Context, ugs *principal.UsersAndGroups, adminPassword string) {
	for _, user := range ugs.GetUsers() {
		if user.Password == "" {
			continue
		}
		err := s.transport.UpdatePassword(ctx, user.Name, adminPassword, user.Password)
		switch {
		case err == nil:
			s.logger.Infof("updated password for %s", user.Name)
		case errors.Is(err, ErrPasswordUnchanged):
			s.logger.Warnf("unable to update password for %s because it did not change", user.Name)
		default:
			s.logger.Errorf("failed to update password for %s: %v", user.Name, err)
		}
	}
}

func NewSyncer(
	transport TransportInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Syncer {
	s := new(Syncer)

	s.transport = transport
	s.differ = NewPrivilegeDiffer(transport, tracer, monitor, logger)

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
