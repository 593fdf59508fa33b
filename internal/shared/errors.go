package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Lookup errors
	ErrValidation     = fmt.Errorf("validation failed")
	ErrLyricsNotFound = fmt.Errorf("lyrics not found")
	ErrServiceFailure = fmt.Errorf("lyrics service error")
	ErrTransport      = fmt.Errorf("transport error")
	ErrBusy           = fmt.Errorf("search already in progress")

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRecordNotFound     = fmt.Errorf("record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
