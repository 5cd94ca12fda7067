// Package common defines shared constants and sentinel errors used across
// cloudshare components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Auth errors.
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrUserAlreadyExists = errors.New("username already exists")
	ErrInvalidToken      = errors.New("invalid token")
	ErrNotLoggedIn       = errors.New("not logged in")

	// Validation errors.
	ErrFileTooLarge     = errors.New("file exceeds maximum size limit")
	ErrLocalPathMissing = errors.New("local file does not exist")

	// Storage errors.
	ErrObjectNotFound = errors.New("object not found")

	// Catalog errors.
	ErrFileNotFound = errors.New("file record not found")

	// Ownership gate: the re-authenticated identity does not match the
	// record's owner.
	ErrNotOwner = errors.New("authenticated user does not own this file")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)

// OrphanedObjectError reports a metadata write that failed after the object
// itself was already stored. The object is NOT rolled back; the key is kept
// so the caller can log it for manual reconciliation.
type OrphanedObjectError struct {
	Key string
	Err error
}

func (e *OrphanedObjectError) Error() string {
	return fmt.Sprintf("object stored under %q but metadata write failed: %v", e.Key, e.Err)
}

func (e *OrphanedObjectError) Unwrap() error {
	return e.Err
}
