package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Creation(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() *AppError
		wantType ErrorType
		wantCode string
		wantMsg  string
	}{
		{
			name: "validation error",
			builder: func() *AppError {
				return NewValidationError("creativity factor must be non-negative").
					WithCode(CodeNegativeCreativity)
			},
			wantType: ErrorTypeValidation,
			wantCode: CodeNegativeCreativity,
			wantMsg:  "creativity factor must be non-negative",
		},
		{
			name: "formatted validation error",
			builder: func() *AppError {
				return NewValidationErrorf("propagation rate %v outside [0, 1]", 1.5)
			},
			wantType: ErrorTypeValidation,
			wantMsg:  "propagation rate 1.5 outside [0, 1]",
		},
		{
			name: "not found error",
			builder: func() *AppError {
				return NewNotFoundError("node \"n42\"")
			},
			wantType: ErrorTypeNotFound,
			wantMsg:  "node \"n42\" not found",
		},
		{
			name: "internal error",
			builder: func() *AppError {
				return NewInternalError("script writer failed")
			},
			wantType: ErrorTypeInternal,
			wantMsg:  "script writer failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder()

			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantMsg, err.Message)
		})
	}
}

func TestAppError_ErrorInterface(t *testing.T) {
	err := NewValidationError("amount must be non-negative")
	assert.Equal(t, "VALIDATION: amount must be non-negative", err.Error())

	cause := errors.New("parse failure")
	wrapped := NewInternalError("could not read dataset").WithCause(cause)
	assert.Equal(t, "INTERNAL: could not read dataset (caused by: parse failure)", wrapped.Error())
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, cause))
}

func TestAppError_Is(t *testing.T) {
	a := NewDuplicateNodeError("n1")
	b := NewDuplicateNodeError("n2")
	other := NewSelfReferentialEdgeError("n1")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, other))
	assert.False(t, errors.Is(a, errors.New("duplicate node id")))
}

func TestAppError_Details(t *testing.T) {
	err := NewDanglingEdgeError("task-a", "task-b", "task-b")

	require.NotNil(t, err.Details)
	assert.Equal(t, "task-a", err.Details["from_id"])
	assert.Equal(t, "task-b", err.Details["to_id"])
	assert.Equal(t, "task-b", err.Details["missing_id"])
	assert.Equal(t, CodeDanglingEdge, err.Code)
}

func TestErrorType_Checking(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		checkFn  func(error) bool
		expected bool
	}{
		{
			name:     "IsValidation - true",
			err:      NewNegativeAmountError("-1.00"),
			checkFn:  IsValidation,
			expected: true,
		},
		{
			name:     "IsValidation - false",
			err:      NewNodeNotFoundError("n1"),
			checkFn:  IsValidation,
			expected: false,
		},
		{
			name:     "IsNotFound - true",
			err:      NewNodeNotFoundError("n1"),
			checkFn:  IsNotFound,
			expected: true,
		},
		{
			name:     "IsInternal - true",
			err:      NewInternalError("boom"),
			checkFn:  IsInternal,
			expected: true,
		},
		{
			name:     "plain error matches nothing",
			err:      errors.New("boom"),
			checkFn:  IsValidation,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.checkFn(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	original := errors.New("disk full")

	wrapped := GetAppError(Wrap(original, "writing seed script"))
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.Equal(t, "writing seed script", wrapped.Message)
	assert.Equal(t, original, wrapped.Cause)

	// Wrapping an AppError keeps its type and code, prefixing the message.
	rewrapped := GetAppError(Wrap(NewNodeNotFoundError("n9"), "loading trigger"))
	require.NotNil(t, rewrapped)
	assert.Equal(t, ErrorTypeNotFound, rewrapped.Type)
	assert.Equal(t, CodeNodeNotFound, rewrapped.Code)
	assert.Equal(t, "loading trigger: node \"n9\" not found", rewrapped.Message)

	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: ExitOK},
		{name: "validation", err: NewNegativeAmountError("-5"), expected: ExitValidation},
		{name: "not found", err: NewNodeNotFoundError("n1"), expected: ExitNotFound},
		{name: "internal", err: NewInternalError("boom"), expected: ExitInternal},
		{name: "plain error", err: errors.New("boom"), expected: ExitInternal},
		{
			name:     "wrapped not found keeps its exit code",
			err:      Wrap(NewNodeNotFoundError("n1"), "resolving trigger"),
			expected: ExitNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCode(tt.err))
		})
	}
}

func TestValidationErrors(t *testing.T) {
	verrs := NewValidationErrors()
	assert.False(t, verrs.HasErrors())

	verrs.Add("nodes", "at least one node is required")
	verrs.AddError(NewSelfReferentialEdgeError("n3"))

	assert.True(t, verrs.HasErrors())
	assert.Len(t, verrs.Errors, 2)
	assert.Contains(t, verrs.Error(), "at least one node is required")
	assert.Contains(t, verrs.Error(), "cannot cite itself")

	byField := verrs.ToMap()
	assert.Equal(t, []string{"at least one node is required"}, byField["nodes"])
	assert.Len(t, byField["general"], 1)
}

func TestStackTraceCaptured(t *testing.T) {
	err := NewInternalError("trace me")
	assert.NotEmpty(t, err.StackTrace)
	assert.Contains(t, err.StackTrace, "errors_test.go")
}
