package connector

import (
	"errors"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/shared"
)

// Connector errors
var (
	ErrAmbiguousMatch    = errors.New("connector: several local records match the remote record")
	ErrTaxGroupInvariant = errors.New("connector: tax group must hold exactly one tax")
	ErrMissingBinding    = errors.New("connector: dependency is not bound")
	ErrUnknownEntity     = errors.New("connector: unknown entity type")
	ErrUnknownJob        = errors.New("connector: unknown job")
)

// Error codes of fatal errors
const (
	CodeValidation     = "CONNECTOR_VALIDATION"
	CodeAmbiguousMatch = "CONNECTOR_AMBIGUOUS_MATCH"
	CodeTaxGroup       = "CONNECTOR_TAX_GROUP"
	CodeMissingBinding = "CONNECTOR_MISSING_BINDING"
)

// ValidationError aborts the import of a record and is never retried.
type ValidationError struct {
	*shared.DomainError
	Err error
}

// NewValidationError creates a fatal error with a formatted message
func NewValidationError(code string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{
		DomainError: shared.NewDomainError(code, fmt.Sprintf(format, args...)),
		Err:         err,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err must not be retried
func IsFatal(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
