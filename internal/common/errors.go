// Package common defines shared constants and sentinel errors used across
// sharebox packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Import errors.
	ErrInvalidDocument = errors.New("invalid import document")

	// Collaborator errors.
	ErrInvalidURL = errors.New("invalid url")
)
