package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// CancelError Tests
// -----------------------------------------------------------------------------

func TestCancelError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CancelError
		want string
	}{
		{
			name: "with mode and cause",
			err:  NewCancelError("write", context.Canceled),
			want: "lock canceled [mode=write]: context canceled",
		},
		{
			name: "without mode",
			err:  NewCancelError("", context.DeadlineExceeded),
			want: "lock canceled: context deadline exceeded",
		},
		{
			name: "bare",
			err:  NewCancelError("read", nil),
			want: "lock canceled [mode=read]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCancelError_Is(t *testing.T) {
	err := NewCancelError("read", context.DeadlineExceeded)

	if !Is(err, ErrCanceled) {
		t.Error("Is(ErrCanceled) = false, want true")
	}
	if !Is(err, context.DeadlineExceeded) {
		t.Error("Is(context.DeadlineExceeded) = false, want true")
	}
	if Is(err, context.Canceled) {
		t.Error("Is(context.Canceled) = true, want false")
	}
	if !Is(err, &CancelError{}) {
		t.Error("Is(CancelError{}) = false, want true")
	}
	if Is(err, ErrStorage) {
		t.Error("Is(ErrStorage) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// StorageError Tests
// -----------------------------------------------------------------------------

func TestStorageError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StorageError
		want string
	}{
		{
			name: "op and path",
			err:  NewStorageError("load", "/tmp/db.txt", fs.ErrPermission),
			want: "storage error [op=load, path=/tmp/db.txt]: permission denied",
		},
		{
			name: "op only",
			err:  NewStorageError("save", "", nil),
			want: "storage error [op=save]",
		},
		{
			name: "no context",
			err:  NewStorageError("", "", nil),
			want: "storage error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStorageError_Is(t *testing.T) {
	err := NewStorageError("save", "db.txt", fs.ErrPermission)

	if !Is(err, ErrStorage) {
		t.Error("Is(ErrStorage) = false, want true")
	}
	if !Is(err, fs.ErrPermission) {
		t.Error("Is(fs.ErrPermission) = false, want true")
	}
	if !Is(fmt.Errorf("insert: %w", err), ErrStorage) {
		t.Error("wrapped Is(ErrStorage) = false, want true")
	}

	var storageErr *StorageError
	if !As(fmt.Errorf("wrapped: %w", err), &storageErr) {
		t.Fatal("As(StorageError) = false, want true")
	}
	if storageErr.Op != "save" {
		t.Errorf("Op = %q, want %q", storageErr.Op, "save")
	}
}

// -----------------------------------------------------------------------------
// MalformedRecordError Tests
// -----------------------------------------------------------------------------

func TestMalformedRecordError(t *testing.T) {
	err := NewMalformedRecordError(3, "alice").WithPath("db.txt")

	want := `malformed record [line=3, path=db.txt]: "alice"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrMalformedRecord) {
		t.Error("Is(ErrMalformedRecord) = false, want true")
	}
	if Is(err, ErrStorage) {
		t.Error("Is(ErrStorage) = true, want false")
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("name", "alice")

	if got := err.Error(); got != "name 'alice' not found" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrNotFound) {
		t.Error("Is(ErrNotFound) = false, want true")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("must not be empty").WithField("name").WithValue("")

	want := "validation error [field=name, value=]: must not be empty"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestClassification(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		retryable    bool
		userFacing   bool
		wantSeverity Severity
	}{
		{"nil", nil, false, false, SeverityDebug},
		{"plain error", errors.New("boom"), false, false, SeverityError},
		{"storage", NewStorageError("load", "db", nil), true, true, SeverityError},
		{"storage not retryable", NewStorageError("load", "db", nil).WithRetryable(false), false, true, SeverityError},
		{"cancel", NewCancelError("read", context.Canceled), false, true, SeverityInfo},
		{"malformed", NewMalformedRecordError(1, "x"), false, true, SeverityError},
		{"not found", NewNotFoundError("phone", "1"), false, true, SeverityWarning},
		{"wrapped storage", Wrap(NewStorageError("save", "db", nil), "insert"), true, true, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
			if got := IsUserFacing(tt.err); got != tt.userFacing {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.userFacing)
			}
			if got := GetSeverity(tt.err); got != tt.wantSeverity {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.wantSeverity)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrNotFound, "lookup %s", "alice")
	if got := err.Error(); got != "lookup alice: not found" {
		t.Errorf("Wrapf() = %q", got)
	}
	if !Is(err, ErrNotFound) {
		t.Error("Wrapf() lost the wrapped sentinel")
	}
}
