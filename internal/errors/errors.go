// Package errors provides centralized error definitions and error handling utilities
// for the phonebook codebase. It defines the error kinds surfaced by the lock and
// record store, error constructors with context wrapping, and classification helpers.
//
// # Error Types
//
// Core errors are returned by the lock, the record codec and the storage layer:
//   - CancelError: a blocking lock acquisition was interrupted
//   - StorageError: I/O failure while loading or saving records
//   - MalformedRecordError: a stored line does not hold exactly two fields
//
// Semantic errors represent common conditions seen by callers:
//   - NotFoundError: no record matched a lookup
//   - ValidationError: invalid input
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewStorageError("load", path, ioErr)
//	err := errors.NewMalformedRecordError(3, "alice").WithPath(path)
//	err := errors.NewNotFoundError("name", "alice")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrNotFound) { ... }
//
//	var storageErr *errors.StorageError
//	if errors.As(err, &storageErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrCanceled indicates that a blocking acquisition was canceled.
	ErrCanceled = New("operation canceled")
	// ErrStorage indicates that the backing storage could not be read or written.
	ErrStorage = New("storage failure")
	// ErrMalformedRecord indicates that a stored line could not be parsed.
	ErrMalformedRecord = New("malformed record")
	// ErrNotFound indicates that no record matched a lookup.
	ErrNotFound = New("not found")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// BookError is the base interface for all phonebook errors.
// It extends the standard error interface with classification methods.
type BookError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Core Errors
// -----------------------------------------------------------------------------

// CancelError is returned when a blocking lock acquisition is interrupted
// before the lock was granted. The lock state is unchanged when it is returned.
//
// Example:
//
//	err := errors.NewCancelError("write", ctx.Err())
//	fmt.Println(err) // "lock canceled [mode=write]: context canceled"
type CancelError struct {
	baseError
	Mode string
}

// NewCancelError creates a new CancelError for the given lock mode.
// The cause is normally the context error that triggered the cancellation.
func NewCancelError(mode string, cause error) *CancelError {
	return &CancelError{
		baseError: baseError{
			message:    "lock canceled",
			cause:      cause,
			severity:   SeverityInfo,
			retryable:  false,
			userFacing: true,
		},
		Mode: mode,
	}
}

// Error returns the formatted error message.
func (e *CancelError) Error() string {
	prefix := e.message
	if e.Mode != "" {
		prefix = fmt.Sprintf("%s [mode=%s]", e.message, e.Mode)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is checks if this error matches the target.
func (e *CancelError) Is(target error) bool {
	if _, ok := target.(*CancelError); ok {
		return true
	}
	if target == ErrCanceled {
		return true
	}
	return e.baseError.Is(target)
}

// StorageError represents an I/O failure while loading or saving records.
//
// Example:
//
//	err := errors.NewStorageError("save", "/tmp/db.txt", ioErr)
//	fmt.Println(err) // "storage error [op=save, path=/tmp/db.txt]: permission denied"
type StorageError struct {
	baseError
	Op   string
	Path string
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, path string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{
			message:    "storage error",
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Op:   op,
		Path: path,
	}
}

// WithRetryable sets whether the error is retryable.
func (e *StorageError) WithRetryable(r bool) *StorageError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *StorageError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	prefix := e.message
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", e.message, strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is checks if this error matches the target.
func (e *StorageError) Is(target error) bool {
	if _, ok := target.(*StorageError); ok {
		return true
	}
	if target == ErrStorage {
		return true
	}
	return e.baseError.Is(target)
}

// MalformedRecordError is returned when a stored line does not split into
// exactly two delimiter-separated fields.
//
// Example:
//
//	err := errors.NewMalformedRecordError(4, "bob")
//	fmt.Println(err) // "malformed record [line=4]: \"bob\""
type MalformedRecordError struct {
	baseError
	Line    int
	Content string
	Path    string
}

// NewMalformedRecordError creates a new MalformedRecordError for the given
// 1-based line number and raw line content.
func NewMalformedRecordError(line int, content string) *MalformedRecordError {
	return &MalformedRecordError{
		baseError: baseError{
			message:    "malformed record",
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Line:    line,
		Content: content,
	}
}

// WithPath adds the storage path to the error context.
func (e *MalformedRecordError) WithPath(path string) *MalformedRecordError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *MalformedRecordError) Error() string {
	parts := []string{fmt.Sprintf("line=%d", e.Line)}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	msg := fmt.Sprintf("%s [%s]: %q", e.message, strings.Join(parts, ", "), e.Content)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is checks if this error matches the target.
func (e *MalformedRecordError) Is(target error) bool {
	if _, ok := target.(*MalformedRecordError); ok {
		return true
	}
	if target == ErrMalformedRecord {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a lookup that matched no record.
//
// Example:
//
//	err := errors.NewNotFoundError("name", "alice")
//	fmt.Println(err) // "name 'alice' not found"
type NotFoundError struct {
	baseError
	Field string
	Value string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(field, value string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", field, value),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Field: field,
		Value: value,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return e.message
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input.
//
// Example:
//
//	err := errors.NewValidationError("name must not contain the delimiter").WithField("name")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. Storage failures are retryable; cancellation,
// parse failures and lookup misses are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var bookErr BookError
	if As(err, &bookErr) {
		return bookErr.IsRetryable()
	}
	return false
}

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    fmt.Fprintln(os.Stderr, err)
//	} else {
//	    fmt.Fprintln(os.Stderr, "internal error")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var bookErr BookError
	if As(err, &bookErr) {
		return bookErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement BookError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var bookErr BookError
	if As(err, &bookErr) {
		return bookErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
