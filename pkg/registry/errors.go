package registry

import (
	"errors"
	"fmt"
)

// Error types. The API boundary matches this closed set exhaustively when
// translating errors to HTTP responses.
var (
	// ErrContentNotFound indicates no content item exists with the given ID.
	ErrContentNotFound = errors.New("content not found")

	// ErrUserNotFound indicates no user exists with the given identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotOwner indicates the requester is authenticated but does not own
	// the content item it is trying to modify.
	ErrNotOwner = errors.New("requester does not own this content")

	// ErrInvalidCredentials indicates a failed login. Unknown email and wrong
	// password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed, missing, or conflicting input, including
// variant mismatches and empty updates. Message is safe to show to callers.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DuplicateError reports a unique-field conflict on user registration.
// Field is the user-facing field name ("Email" or "Username").
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// StorageError represents a blob-store failure.
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
