// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sync

import (
	"context"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring"
	"github.com/nimbusid/usersync/internal/tracing"
	"github.com/nimbusid/usersync/pkg/principal"
)

// PrivilegeDiffer makes remote group privileges match the desired state.
// The remote API is per-privilege over a group list, so the differ first
// removes every enumerated privilege from every candidate group, then adds
// each privilege back to exactly the groups whose desired state includes
// it. Individual call failures are logged and the diff continues.
type PrivilegeDiffer struct {
	transport  TransportInterface
	privileges []string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Apply runs the remove-then-add pass. With applyChanges false the same
// enumeration happens but only the intended operations are logged.
func (d *PrivilegeDiffer) Apply(ctx context.Context, ugs *principal.UsersAndGroups, applyChanges bool) error {
	ctx, span := d.tracer.Start(ctx, "sync.PrivilegeDiffer.Apply")
	defer span.End()

	var candidates []string
	for _, group := range ugs.GetGroups() {
		if !isProtectedGroup(group.Name) {
			candidates = append(candidates, group.Name)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	for _, priv := range d.privileges {
		d.logger.Infof("removing privilege %s from groups %v", priv, candidates)
		if !applyChanges {
			continue
		}
		if err := d.transport.SetGroupPrivilege(ctx, candidates, priv, PrivilegeRemove); err != nil {
			d.logger.Warnf("failed to remove privilege %s: %v", priv, err)
		}
	}

	for _, priv := range d.privileges {
		var withPriv []string
		for _, name := range candidates {
			if ugs.GetGroup(name).HasPrivilege(priv) {
				withPriv = append(withPriv, name)
			}
		}
		if len(withPriv) == 0 {
			continue
		}

		d.logger.Infof("adding privilege %s to groups %v", priv, withPriv)
		if !applyChanges {
			continue
		}
		if err := d.transport.SetGroupPrivilege(ctx, withPriv, priv, PrivilegeAdd); err != nil {
			d.logger.Warnf("failed to add privilege %s: %v", priv, err)
		}
	}

	return nil
}

func NewPrivilegeDiffer(
	transport TransportInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *PrivilegeDiffer {
	d := new(PrivilegeDiffer)

	d.transport = transport
	d.privileges = AllPrivileges

	d.tracer = tracer
	d.monitor = monitor
	d.logger = logger

	return d
}
