package booking

import "errors"

var (
	// ErrNotFound means the referenced appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrForbidden means the caller is not the appointment's patient.
	ErrForbidden = errors.New("appointment belongs to another patient")
	// ErrInvalidInput is matched by every *InputError.
	ErrInvalidInput = errors.New("invalid input")
)

// InputError is a client mistake. Msg is safe to return verbatim.
type InputError struct {
	Msg    string
	Fields []string
	Err    error
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Unwrap() error { return e.Err }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }
