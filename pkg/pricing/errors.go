package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("invalid decimal")
	// ErrMissingField is matched by every *MissingFieldError.
	ErrMissingField = errors.New("missing field")
	// ErrTypeMismatch is matched by every *TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ParseError reports a field whose value is not a decimal number.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid decimal", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// MissingFieldError reports a batch record without a required key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// TypeMismatchError reports a batch record field that is present but not a string.
type TypeMismatchError struct {
	Field string
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected string, got %s", e.Field, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// ItemError locates the batch item that aborted a batch.
type ItemError struct {
	Index     int
	ProductID string
	Err       error
}

func (e *ItemError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("item %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("item %d (product %s): %v", e.Index, e.ProductID, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
