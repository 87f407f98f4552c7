package services

import "errors"

// Service errors
var (
	// ErrNotLoaded is returned before the first successful load
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrNoInput is returned when no input file is configured
	ErrNoInput = errors.New("no input file configured")
)
