// Package apperr is the error taxonomy shared by the mutation service and
// the HTTP layer.
//
// Four classes, matching what callers can act on: validation (400),
// not-found (404), permission-denied (403), and everything else — storage
// failures — surfaced as 500. Classification happens where the error is
// raised; the HTTP layer only inspects with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a referenced project/task/submission/user that does
	// not exist. Checked before authorization: a missing resource is 404
	// even for actors who could not have accessed it.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied marks an authorization rejection. The operation
	// aborts before any write.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation marks malformed or missing input, including duplicate
	// member adds. The operation aborts before any write.
	ErrValidation = errors.New("validation failed")
)

// NotFound returns an ErrNotFound for the named resource.
func NotFound(resource string) error {
	return fmt.Errorf("%s: %w", resource, ErrNotFound)
}

// Denied returns an ErrPermissionDenied with the reason callers see.
func Denied(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrPermissionDenied)
}

// Invalid returns an ErrValidation with the reason callers see.
func Invalid(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrValidation)
}
