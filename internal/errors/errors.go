package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError carrying the same code, so
// callers can match on the sentinels below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Code == e.Code
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeMissingColumn   = "MISSING_COLUMN"
	CodeNonNumericValue = "NON_NUMERIC_VALUE"
)

// Sentinels for errors.Is matching by code.
var (
	ErrConfigInvalid   = &AppError{Code: CodeConfigInvalid}
	ErrInternal        = &AppError{Code: CodeInternalError}
	ErrInvalidInput    = &AppError{Code: CodeInvalidInput}
	ErrMissingColumn   = &AppError{Code: CodeMissingColumn}
	ErrNonNumericValue = &AppError{Code: CodeNonNumericValue}
)

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// InvalidInput covers missing, unparsable and empty input tables.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// InvalidInputf is InvalidInput with a cause attached.
func InvalidInputf(cause error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// MissingColumn reports every absent required column at once.
func MissingColumn(columns ...string) *AppError {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return New(CodeMissingColumn, fmt.Sprintf("missing required column(s): %s", strings.Join(quoted, ", ")))
}

// NonNumericValue reports the first offending cell. row is the 0-based
// positional index of the record.
func NonNumericValue(column string, row int, value string) *AppError {
	if strings.TrimSpace(value) == "" {
		return New(CodeNonNumericValue, fmt.Sprintf("column %q has a missing value at row %d", column, row))
	}
	return New(CodeNonNumericValue, fmt.Sprintf("column %q has non-numeric value %q at row %d", column, value, row))
}

// Process exit codes, one per error class.
const (
	ExitSuccess         = 0
	ExitInternalError   = 1
	ExitUsageError      = 2
	ExitInvalidInput    = 3
	ExitMissingColumn   = 4
	ExitNonNumericValue = 5
	ExitConfigInvalid   = 6
)

// ExitCode maps an error to the process exit code. Errors that are not
// AppErrors are treated as usage errors since only argument parsing
// produces them.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch GetCode(err) {
	case CodeInvalidInput:
		return ExitInvalidInput
	case CodeMissingColumn:
		return ExitMissingColumn
	case CodeNonNumericValue:
		return ExitNonNumericValue
	case CodeConfigInvalid:
		return ExitConfigInvalid
	case CodeInternalError:
		return ExitInternalError
	default:
		return ExitUsageError
	}
}
