// Package errs provides the error taxonomy shared by the wall-geometry engines.
package errs

import "fmt"

// Kind classifies an error without tying callers to a concrete type name.
type Kind string

const (
	InvalidInput     Kind = "invalid_input"
	Degenerate       Kind = "degenerate_geometry"
	NumericalFailure Kind = "numerical_failure"
	ComplexityLimit  Kind = "complexity_limit"
	Cancelled        Kind = "cancelled"
	ConversionLoss   Kind = "conversion_loss"
)

// GeomError is the error type every engine returns. Engines never panic or
// raise across a component boundary; they return a result struct carrying
// Warnings and, on failure, a *GeomError.
type GeomError struct {
	Kind      Kind
	Component string
	Message   string
	Cause     error
}

func (e *GeomError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Component, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Kind, e.Message)
}

func (e *GeomError) Unwrap() error {
	return e.Cause
}

// Is matches on kind and component so callers can use errors.Is with a
// sentinel built from New.
func (e *GeomError) Is(target error) bool {
	t, ok := target.(*GeomError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Component == t.Component
}

// New builds a GeomError with no underlying cause.
func New(component string, kind Kind, format string, args ...interface{}) *GeomError {
	return &GeomError{Component: component, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches component/kind context to an existing error.
func Wrap(component string, kind Kind, cause error, format string, args ...interface{}) *GeomError {
	return &GeomError{Component: component, Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsKind reports whether err is a *GeomError of the given kind.
func IsKind(err error, kind Kind) bool {
	ge, ok := err.(*GeomError)
	return ok && ge.Kind == kind
}
