package main

import "errors"

// Profile store errors. Callers match them with errors.Is; messages are
// shown to the user as-is.
var (
	ErrProfileExists        = errors.New("profile already exists")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrLastProfile          = errors.New("cannot delete last profile: you must have at least one profile")
	ErrInvalidName          = errors.New("profile name must not be empty")
	ErrInvalidRetirementAge = errors.New("retirement age out of range")
	ErrInvalidDate          = errors.New("date is required")
)

// ErrNoDisplay means no embedded window can be opened; callers fall back
// to the console.
var ErrNoDisplay = errors.New("embedded UI not available")
