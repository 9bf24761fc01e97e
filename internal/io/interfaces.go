// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package io holds the principal sources and sinks the commands compose:
// JSON and CSV files, XLSX workbooks and Salesforce.
package io

import (
	"context"

	"github.com/nimbusid/usersync/pkg/principal"
)

// ReaderInterface produces a container from some source. Readers do not
// validate; the orchestrator runs validation after reconciliation.
type ReaderInterface interface {
	Read(ctx context.Context) (*principal.UsersAndGroups, error)
}

// WriterInterface renders a container to some sink.
type WriterInterface interface {
	Write(ctx context.Context, ugs *principal.UsersAndGroups) error
}
