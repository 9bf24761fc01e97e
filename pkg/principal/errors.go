package principal

import (
	"fmt"
)

// Error codes for principal container operations
const (
	ErrCodeDuplicateUser   = "DUPLICATE_USER"
	ErrCodeDuplicateGroup  = "DUPLICATE_GROUP"
	ErrCodeUnknownPolicy   = "UNKNOWN_DUPLICATE_POLICY"
	ErrCodeMalformedRecord = "MALFORMED_RECORD"
)

// PrincipalError represents a domain-specific error for container operations
type PrincipalError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable error message
	Op         string            // Operation that failed (e.g., "AddUser", "LoadFromJSON")
	Metadata   map[string]string // Additional context about the error
	Underlying error             // The underlying error if any
}

// Error implements the error interface
func (e *PrincipalError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Is implements error unwrapping for errors.Is
func (e *PrincipalError) Is(target error) bool {
	t, ok := target.(*PrincipalError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *PrincipalError) Unwrap() error {
	return e.Underlying
}

func NewDuplicateUserError(name string, op string) *PrincipalError {
	return &PrincipalError{
		Code:    ErrCodeDuplicateUser,
		Message: "user already exists",
		Op:      op,
		Metadata: map[string]string{
			"user_name": name,
		},
	}
}

func NewDuplicateGroupError(name string, op string) *PrincipalError {
	return &PrincipalError{
		Code:    ErrCodeDuplicateGroup,
		Message: "group already exists",
		Op:      op,
		Metadata: map[string]string{
			"group_name": name,
		},
	}
}

func NewUnknownPolicyError(policy DuplicatePolicy, op string) *PrincipalError {
	return &PrincipalError{
		Code:    ErrCodeUnknownPolicy,
		Message: "unknown duplicate policy",
		Op:      op,
		Metadata: map[string]string{
			"policy": fmt.Sprintf("%d", policy),
		},
	}
}

func NewMalformedRecordError(op string, underlying error) *PrincipalError {
	return &PrincipalError{
		Code:       ErrCodeMalformedRecord,
		Message:    "malformed principal record",
		Op:         op,
		Underlying: underlying,
	}
}
