package models

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput is returned for caller-supplied values outside their
	// allowed set, such as an unknown generation type.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when a uniqueness invariant is violated at
	// commit time, such as a second base generation for the same user.
	ErrConflict = errors.New("conflict")
)
