package core

import "github.com/pkg/errors"

// FieldError carries a per-field message inside a ValidationError.
type FieldError struct {
	Field string
	Error string
}

// ValidationError wraps a validation failure together with the offending
// fields so the API can render a field-to-message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks an error no retry can fix, such as a lost database
// connection. The API error handler signals the server to drain and exit
// when one surfaces.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
