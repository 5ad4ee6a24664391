// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 42, "--concurrency"),
			expected: "invalid value 42 for flag --concurrency",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestConversionError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		op          string
		cause       error
		expectedMsg string
		checkIs     error
	}{
		{
			name:        "Error prefixes the operation",
			op:          "to_str_int",
			cause:       errors.New("boom"),
			expectedMsg: "to_str_int: boom",
		},
		{
			name:        "errors.Is works with wrapped error",
			op:          "array_to_str_float",
			cause:       context.Canceled,
			expectedMsg: "array_to_str_float: context canceled",
			checkIs:     context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ConversionError{Op: tt.op, Cause: tt.cause}

			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}
			if err.Unwrap() != tt.cause {
				t.Error("Unwrap should return the original cause")
			}
			if tt.checkIs != nil && !errors.Is(err, tt.checkIs) {
				t.Errorf("errors.Is should find %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	err := TimeoutError{Operation: "batch", Limit: 30 * time.Second}
	if got, want := err.Error(), `operation "batch" timed out after 30s`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	var err error = ValidationError{Field: "count", Message: "exceeds sequence length"}
	if got, want := err.Error(), `validation error for "count": exceeds sequence length`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	var validationErr ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "count" {
		t.Error("expected error to be ValidationError type with Field \"count\"")
	}
}

func TestAllocationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      AllocationError
		expected string
	}{
		{
			name:     "without operation",
			err:      AllocationError{Requested: 1024, Limit: 512},
			expected: "allocation failure: requested 1024 bytes (limit: 512)",
		},
		{
			name:     "with operation",
			err:      AllocationError{Op: "array_to_str_int", Requested: 12, Limit: 8},
			expected: "allocation failure in array_to_str_int: requested 12 bytes (limit: 8)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if !IsAllocationError(tt.err) {
				t.Error("IsAllocationError should report true")
			}
		})
	}
}

func TestErrorTypes_ErrorsAsWithWrapping(t *testing.T) {
	t.Parallel()

	t.Run("AllocationError wrapped in ConversionError", func(t *testing.T) {
		t.Parallel()
		err := ConversionError{Op: "to_str_float", Cause: AllocationError{Requested: 9, Limit: 4}}

		var allocErr AllocationError
		if !errors.As(err, &allocErr) {
			t.Error("errors.As should find AllocationError through ConversionError")
		}
		if allocErr.Requested != 9 {
			t.Errorf("expected Requested 9, got %d", allocErr.Requested)
		}
	})

	t.Run("ValidationError wrapped with WrapError", func(t *testing.T) {
		t.Parallel()
		err := WrapError(ValidationError{Field: "op", Message: "unknown"}, "parse request")

		var validationErr ValidationError
		if !errors.As(err, &validationErr) {
			t.Error("errors.As should find ValidationError through WrapError")
		}
	})
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load config",
			expectedMsg: "failed to load config: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "operation timed out",
			expectedMsg: "operation timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("connection reset"),
			format:      "failed to connect to %s:%d",
			args:        []any{"localhost", 8080},
			expectedMsg: "failed to connect to localhost:8080: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}
			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}
			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}
			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitErrorGeneric},
		{"deadline", WrapError(context.DeadlineExceeded, "batch"), ExitErrorTimeout},
		{"timeout type", TimeoutError{Operation: "x", Limit: time.Second}, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"allocation", ConversionError{Op: "to_str_int", Cause: AllocationError{Requested: 3, Limit: 1}}, ExitErrorAllocation},
		{"config", NewConfigError("bad flag"), ExitErrorConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":         ExitSuccess,
		"ExitErrorGeneric":    ExitErrorGeneric,
		"ExitErrorTimeout":    ExitErrorTimeout,
		"ExitErrorAllocation": ExitErrorAllocation,
		"ExitErrorConfig":     ExitErrorConfig,
		"ExitErrorCanceled":   ExitErrorCanceled,
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if other, exists := seen[code]; exists {
			t.Errorf("exit code %d is shared by %s and %s", code, name, other)
		}
		seen[code] = name
	}
}
