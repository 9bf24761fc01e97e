// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package runs

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	appio "github.com/nimbusid/usersync/internal/io"
	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring"
	"github.com/nimbusid/usersync/internal/tracing"
	"github.com/nimbusid/usersync/pkg/sync"
)

// ErrRunInProgress rejects a trigger while another run is still active.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// RunResult is the recorded outcome of one sync run.
type RunResult struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Users      int       `json:"users"`
	Groups     int       `json:"groups"`
	DryRun     bool      `json:"dry_run"`
	Error      string    `json:"error,omitempty"`
}

func (r *RunResult) Succeeded() bool {
	return r.Error == ""
}

var _ ServiceInterface = (*Service)(nil)

// Service runs syncs from a fixed source with fixed options. The reader
// is re-read on every trigger so repeated runs pick up source changes.
type Service struct {
	reader appio.ReaderInterface
	syncer SyncerInterface
	opts   sync.Options

	mu      gosync.Mutex
	running bool
	last    *RunResult

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) Trigger(ctx context.Context) (*RunResult, error) {
	ctx, span := s.tracer.Start(ctx, "runs.Service.Trigger")
	defer span.End()

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	result := &RunResult{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		DryRun:    !s.opts.ApplyChanges,
	}

	ugs, err := s.reader.Read(ctx)
	if err == nil {
		result.Users = ugs.NumberUsers()
		result.Groups = ugs.NumberGroups()
		err = s.syncer.Run(ctx, ugs, s.opts)
	}
	if err != nil {
		result.Error = err.Error()
		s.logger.Errorf("sync run %s failed: %v", result.ID, err)
	}
	result.FinishedAt = time.Now().UTC()

	s.mu.Lock()
	s.running = false
	s.last = result
	s.mu.Unlock()

	return result, nil
}

func (s *Service) Last(ctx context.Context) *RunResult {
	_, span := s.tracer.Start(ctx, "runs.Service.Last")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func NewService(
	reader appio.ReaderInterface,
	syncer SyncerInterface,
	opts sync.Options,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.reader = reader
	s.syncer = syncer
	s.opts = opts

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
