package domain

import "fmt"

// ValidationError reports a malformed or missing inbound field.
// Surfaced by the webhook entry point as a 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// MalformedCardError reports a content card missing a field required by
// the requested intent.
type MalformedCardError struct {
	Intent Intent
	Field  string
}

func (e *MalformedCardError) Error() string {
	return fmt.Sprintf("card missing %s for intent %s", e.Field, e.Intent)
}

// DispatchError wraps a failed outbound send. Not retried.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
