package sync

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBatchWithRemoveDeleted is the configuration error raised when a
// batched sync is combined with remove-deleted semantics. Removing users
// absent from a batch would delete everyone outside it.
var ErrBatchWithRemoveDeleted = errors.New("cannot combine remove-deleted with a batch size")

// ErrPasswordUnchanged is returned by the transport when the remote
// rejects a password update because the new password equals the current
// one. The orchestrator treats it as a warning.
var ErrPasswordUnchanged = errors.New("password unchanged")

// Stage names reported by fatal sync errors.
const (
	StageFetch = "fetch"
	StageSync  = "sync"
)

// SyncError is a fatal failure of one orchestrator stage.
type SyncError struct {
	Stage      string
	Underlying error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync stage %s failed: %v", e.Stage, e.Underlying)
}

func (e *SyncError) Unwrap() error {
	return e.Underlying
}

// ValidationError aborts a sync when the container fails referential
// integrity checks. It carries the full issue list.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid users and groups: %s", strings.Join(e.Issues, "; "))
}
