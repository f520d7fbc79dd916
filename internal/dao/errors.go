package dao

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes DAO errors.
type ErrorCode string

const (
	// ErrCodeNoResults indicates a query that must return a row returned none.
	ErrCodeNoResults ErrorCode = "NO_RESULTS"

	// ErrCodeInvalidIncrement indicates a $inc operand that is not a number.
	ErrCodeInvalidIncrement ErrorCode = "INVALID_INCREMENT"

	// ErrCodeEmptyInsert indicates an insert without rows or columns.
	ErrCodeEmptyInsert ErrorCode = "EMPTY_INSERT"

	// ErrCodeNoTransaction indicates a transaction helper used on a Dao
	// that is not bound to a *sql.DB.
	ErrCodeNoTransaction ErrorCode = "NO_TRANSACTION"
)

// Error is returned for DAO-level failures that are not driver errors.
type Error struct {
	Code    ErrorCode
	Table   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Table != "" {
		msg = fmt.Sprintf("%s (table=%s)", msg, e.Table)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the ErrorCode of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNoResults reports whether err is a NO_RESULTS error.
func IsNoResults(err error) bool {
	return CodeOf(err) == ErrCodeNoResults
}
