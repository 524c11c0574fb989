package core

import "errors"

var (
	// ErrGeneration classifies failures raised while the generator produces a candidate.
	ErrGeneration = errors.New("generation failed")

	// ErrCritique classifies failures raised while the critic produces feedback.
	ErrCritique = errors.New("critique failed")

	// ErrConfiguration classifies missing or invalid setup detected before any loop step runs.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNilAgent is returned when a loop is constructed without a generator or critic.
	ErrNilAgent = errors.New("role agent is nil")
)
