package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/whereql/internal/dao"
	"github.com/roach88/whereql/internal/schema"
	"github.com/roach88/whereql/internal/where"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The input was rejected or a statement failed
	ExitCommandError = 2 // Command error (bad flags, unreadable input, config, connection)
)

// Generic error codes. Errors carrying their own code (where-clause parse
// errors, DAO errors, definition load errors) keep it.
const (
	ErrCodeGeneric  = "E001" // Generic/unknown error
	ErrCodeInput    = "E002" // Input could not be read
	ErrCodeConfig   = "E003" // Configuration could not be loaded
	ErrCodeDatabase = "E004" // Database could not be opened or a statement failed
	ErrCodeUsage    = "E005" // Invalid flag combination
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode returns the code reported for err: the code of a typed domain
// error when there is one, otherwise fallback.
func ErrorCode(err error, fallback string) string {
	if code := where.CodeOf(err); code != "" {
		return string(code)
	}
	if code := dao.CodeOf(err); code != "" {
		return string(code)
	}
	var le *schema.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return fallback
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Verbose and diagnostic output (defaults to Writer)
	Verbose   bool

	// TraceID is attached to JSON responses when set.
	TraceID string
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`             // "ok" or "error"
	Data    any       `json:"data,omitempty"`     // success payload
	Error   *CLIError `json:"error,omitempty"`    // error details
	TraceID string    `json:"trace_id,omitempty"` // optional trace correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "MALFORMED_OBJECT", ...
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format. Text output
// prints data with fmt.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data, TraceID: f.TraceID})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// JSON reports whether the formatter writes JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status:  "error",
			Error:   &CLIError{Code: code, Message: message, Details: details},
			TraceID: f.TraceID,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns an ExitError carrying exit. The reported code
// is taken from err when it is a typed domain error.
func (f *OutputFormatter) Fail(exit int, fallbackCode, message string, err error) error {
	code := ErrorCode(err, fallbackCode)
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	var details any
	var pe *where.ParseError
	if errors.As(err, &pe) {
		details = map[string]string{"path": pe.Path}
	}
	_ = f.Error(code, text, details)
	return WrapExitError(exit, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
