package models

import (
	"fmt"
	"sort"
	"strings"
)

// The engine's error taxonomy. Every failure a caller can act on is one of
// these types; handlers map them to HTTP statuses and nothing below ever
// terminates the process.

// ValidationError reports malformed input, keyed by offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError means the slot is occupied. Losing an approval race is the
// expected cost of the deferred conflict check, so the message is written for
// the admin, not for a log file.
type ConflictError struct {
	Date Date
	Time string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot no longer available: %s %s is already booked", e.Date, e.Time)
}

// StateError means a transition was attempted on a request that already left
// the pending state.
type StateError struct {
	ID     string
	Status RequestStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("request %s is already %s", e.ID, e.Status)
}

// NotFoundError means the referenced document vanished.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// PermissionError means the caller lacks admin rights.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	if e.Reason == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Reason
}

// TimeoutError wraps a store call that exceeded its deadline. The write may
// or may not have landed; retrying is safe because occupying writes are
// conditional.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// StoreError wraps any other failure of the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
