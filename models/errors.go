package models

import "fmt"

// ValidationError rejects malformed input before any computation runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError marks a missing reference-data entity.
type NotFoundError struct {
	Kind string // "artwork", "author", "group", ...
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// EmptyCaseBaseError reports a retrieval that found no candidate cases
// in the target cluster. Reuse absorbs it and falls back to a pure
// content-matcher ranking.
type EmptyCaseBaseError struct {
	ClusterID string
}

func (e *EmptyCaseBaseError) Error() string {
	return fmt.Sprintf("no cases in cluster %q", e.ClusterID)
}

// StoreError wraps a persistence failure. It is propagated, never
// silently retried: a blind Retain retry could double-count a visit.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
