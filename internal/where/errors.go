package where

import (
	"errors"
	"fmt"

	"github.com/roach88/whereql/internal/ir"
)

// ParseErrorCode categorizes compile failures.
type ParseErrorCode string

const (
	// CodeMalformedObject indicates a key of the wrong class inside a
	// mapping: a judge symbol without a column scope, or a column name under
	// a column-scoped logic symbol.
	CodeMalformedObject ParseErrorCode = "MALFORMED_OBJECT"

	// CodeMalformedValue indicates a column's operator-mapping holds a key
	// that is neither a logic nor a judge symbol, or a value of the wrong
	// shape for its operator.
	CodeMalformedValue ParseErrorCode = "MALFORMED_VALUE"

	// CodeNotAnObject indicates a mapping was required.
	CodeNotAnObject ParseErrorCode = "NOT_AN_OBJECT"

	// CodeNotAnArray indicates a list was required.
	CodeNotAnArray ParseErrorCode = "NOT_AN_ARRAY"
)

// ParseError is returned when a DSL value cannot be compiled.
type ParseError struct {
	// Code identifies the error category.
	Code ParseErrorCode

	// Message is a human-readable description.
	Message string

	// Path locates the offending value, e.g. "$.a.$or[1]".
	Path string

	// Value is the offending sub-structure.
	Value ir.IRValue
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s: %s: %s", e.Code, e.Path, e.Message, ir.Render(e.Value))
}

func newParseError(code ParseErrorCode, path string, value ir.IRValue, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Value:   value,
	}
}

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// CodeOf returns the ParseErrorCode of err, or "" when err is not a
// *ParseError.
func CodeOf(err error) ParseErrorCode {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
