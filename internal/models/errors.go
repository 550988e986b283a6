package models

import "errors"

// Sentinel errors for the core error taxonomy. Callers match with errors.Is
// and wrap with fmt.Errorf("...: %w", err) to add context.
var (
	// ErrValidation indicates malformed configuration or input: a scorecard
	// score outside [0,1], an unsupported goal metric or operator, or an
	// exploration config field outside its allowed range. Always returned
	// before any simulation work begins.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a referenced baseline scorecard, analysis, or
	// simulation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates an operation was attempted against an entity
	// missing required data, such as building a root node from an experiment
	// that has no scorecard or no aggregated baseline outcomes.
	ErrInvalidState = errors.New("invalid state")
)
