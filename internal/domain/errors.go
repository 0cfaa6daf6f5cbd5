package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuestion     = errors.New("no question provided")
	ErrEmptyEmbedding    = errors.New("embedding is empty")
	ErrZeroNorm          = errors.New("embedding has zero norm")
	ErrNonFinite         = errors.New("embedding contains NaN or Inf")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// ValidationError marks input the caller can fix. It never leaves the
// index in a modified state.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// CollaboratorError wraps a failure of the embedding or generation provider.
type CollaboratorError struct {
	Op  string // "embed" or "generate"
	Err error
}

func (e *CollaboratorError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *CollaboratorError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsCollaborator reports whether err carries a CollaboratorError.
func IsCollaborator(err error) bool {
	var c *CollaboratorError
	return errors.As(err, &c)
}
