package models

import "errors"

// Error taxonomy shared by the source adapters. Adapters wrap these with %w and
// flatten them into the result's Error field at their boundary.
var (
	ErrNotFound            = errors.New("no matching candidate")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrFallbackUsed        = errors.New("fallback data used")
	ErrInvalidQuery        = errors.New("invalid city query")
	ErrAlreadySet          = errors.New("result already recorded for this run")
)
