package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidConfig       = errors.New("invalid config")
	ErrUnitNotFound        = errors.New("unit not found")
	ErrDifferentCategories = errors.New("units belong to different categories")
	ErrNoPathFound         = errors.New("no conversion path found")
	ErrInvalidFormula      = errors.New("invalid formula")
	ErrUndefinedVariable   = errors.New("undefined variable")
	ErrMalformed           = errors.New("malformed placeholder")
	ErrUnitInUse           = errors.New("unit is referenced by a conversion relation")
	ErrExecution           = errors.New("execution error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindInvalidConfig       ErrorKind = "invalid_config"
	KindUnitNotFound        ErrorKind = "unit_not_found"
	KindDifferentCategories ErrorKind = "different_categories"
	KindNoPathFound         ErrorKind = "no_path_found"
	KindInvalidFormula      ErrorKind = "invalid_formula"
	KindUndefinedVariable   ErrorKind = "undefined_variable"
	KindMalformed           ErrorKind = "malformed_placeholder"
	KindUnitInUse           ErrorKind = "unit_in_use"
	KindExecution           ErrorKind = "execution"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first OpError in the chain, or KindExecution.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}

// UserMessage renders err as a short sentence suitable for an inline UI message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var oe *OpError
	if !errors.As(err, &oe) || oe.Err == nil {
		return err.Error()
	}
	return oe.Err.Error()
}
