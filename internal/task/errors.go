package task

import (
	"errors"
	"fmt"
)

// Errors returned by board and store operations.
//
// These can be checked with errors.Is():
//
//	if errors.Is(err, task.ErrNotFound) {
//	    // update targeted a row that does not exist
//	}
var (
	// ErrValidation is returned when a record or patch carries an invalid
	// enum value or is missing a required field. Rejected before any write.
	ErrValidation = errors.New("invalid task data")

	// ErrNotFound is returned when an update targets a (project, task_id)
	// pair that does not exist in the table.
	ErrNotFound = errors.New("task not found")

	// ErrAlreadyExists is returned when an add targets a (project, task_id)
	// pair that is already present in the table.
	ErrAlreadyExists = errors.New("task already exists")

	// ErrStoreIO is returned when the backing medium is unreachable or a
	// read/write fails. Fatal for the current call, never retried here.
	ErrStoreIO = errors.New("store I/O failure")

	// ErrConsistency is returned when the store's header or row shape does
	// not match the expected schema. Operations cannot proceed until the
	// backing medium is repaired.
	ErrConsistency = errors.New("store shape does not match schema")
)

// Validationf wraps ErrValidation with a reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with the missing identity.
func NotFoundf(project, taskID string) error {
	return fmt.Errorf("%w: task %q in project %q", ErrNotFound, taskID, project)
}

// AlreadyExistsf wraps ErrAlreadyExists with the duplicate identity.
func AlreadyExistsf(project, taskID string) error {
	return fmt.Errorf("%w: task %q in project %q", ErrAlreadyExists, taskID, project)
}

// StoreIOf wraps ErrStoreIO with the failed operation and its cause.
func StoreIOf(op string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreIO, op, cause)
}

// Consistencyf wraps ErrConsistency with a description of the mismatch.
func Consistencyf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConsistency, fmt.Sprintf(format, args...))
}

// IsRecoverable reports whether the error is a per-item failure that a
// batch operation records in its result instead of aborting the call.
// Store-level failures are not recoverable: they indicate the shared write
// or reload cannot be trusted.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists)
}
