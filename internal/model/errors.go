package model

import "errors"

// Common errors used across the application
var (
	// Input errors
	ErrInvalidDirection = errors.New("invalid direction")

	// Configuration errors
	ErrInvalidBoardSize    = errors.New("board size must be at least 3")
	ErrInvalidTickInterval = errors.New("tick interval must be positive")

	// Scheduler errors
	ErrAlreadyStarted = errors.New("simulation already started")
	ErrNotStarted     = errors.New("simulation not started")
	ErrStopped        = errors.New("simulation stopped")
)
