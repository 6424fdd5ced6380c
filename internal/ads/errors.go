package ads

import (
	"errors"
	"fmt"
)

// ErrNoAds is returned by random selection when no ads exist at all.
var ErrNoAds = errors.New("no ads available")

// ValidationError reports malformed or out-of-range client input.
// Always the caller's fault; maps to HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func missingField(field string) error {
	return &ValidationError{Field: field, Reason: "missing or empty"}
}

// NotFoundError reports a referenced entity that does not exist.
// Maps to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// IntegrityError reports internally inconsistent stored data, e.g. an
// ad with no owning performer. A server-side fault, never the
// caller's doing; maps to HTTP 500.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "data integrity fault: " + e.Reason
}

// StorageError wraps a failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
