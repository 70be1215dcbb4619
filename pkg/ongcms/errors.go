package ongcms

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrEntityNotFound indicates the operation targeted a nonexistent id
	ErrEntityNotFound = errors.New("entity not found")

	// ErrValidation indicates a malformed request or disallowed file set
	ErrValidation = errors.New("validation failed")

	// ErrUploadFailed indicates an attachment upload failed
	ErrUploadFailed = errors.New("attachment upload failed")
)

// ValidationError carries the first validation violation found. It unwraps
// to ErrValidation so callers can classify with errors.Is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// EntityError represents an error from a generic entity operation
type EntityError struct {
	Entity string
	ID     string
	Op     string
	Err    error
}

func (e *EntityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s operation %s failed: %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("%s operation %s failed for id %s: %v", e.Entity, e.Op, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// StorageError represents an error from the attachment store
type StorageError struct {
	Folder string
	Key    string
	Op     string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("attachment operation %s failed for key %s in folder %s: %v", e.Op, e.Key, e.Folder, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
