// Package service provides business logic for the assistant backend.
package service

import (
	"errors"
)

// Failure taxonomy for the turn workflow and its sibling operations.
// Callers classify with errors.Is; details ride along via %w wrapping.
var (
	// ErrNotFound means the referenced row does not exist or belongs to a
	// different user. The two cases are deliberately indistinguishable so
	// existence never leaks across owners.
	ErrNotFound = errors.New("not found")

	// ErrPersistence means a storage read or write failed.
	ErrPersistence = errors.New("persistence failure")

	// ErrUpstream means the completion provider call failed.
	ErrUpstream = errors.New("completion provider failure")

	// ErrInvalidInput means the request was rejected before the workflow ran.
	ErrInvalidInput = errors.New("invalid input")
)
