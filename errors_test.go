package objmodel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/broady/objmodel/member"
)

func TestNewError(t *testing.T) {
	err := NewError(CodeTypeMismatch, "bad value")
	if err.Code != CodeTypeMismatch {
		t.Errorf("expected code %s, got %s", CodeTypeMismatch, err.Code)
	}
	if err.Message != "bad value" {
		t.Errorf("expected message 'bad value', got %s", err.Message)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(CodeDispatchFailure, "no overload for %s", "f")
	if err.Message != "no overload for f" {
		t.Errorf("expected formatted message, got %s", err.Message)
	}
}

func TestErrorError(t *testing.T) {
	err := NewError(CodeInternal, "something went wrong")
	expected := "internal: something went wrong"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestError_Is(t *testing.T) {
	err := Errorf(CodeOverloadConflict, "f() is defined twice")
	if !errors.Is(err, ErrOverloadConflict) {
		t.Error("expected error to match its sentinel")
	}
	if errors.Is(err, ErrDeclarationConflict) {
		t.Error("expected error not to match another sentinel")
	}

	wrapped := fmt.Errorf("declaring: %w", err)
	if !errors.Is(wrapped, ErrOverloadConflict) {
		t.Error("expected wrapped error to match its sentinel")
	}
	if CodeOf(wrapped) != CodeOverloadConflict {
		t.Errorf("expected code %s, got %s", CodeOverloadConflict, CodeOf(wrapped))
	}

	// Two non-sentinel errors never match each other.
	if errors.Is(err, Errorf(CodeOverloadConflict, "other")) {
		t.Error("expected errors with messages not to match")
	}
}

func TestWithDetail(t *testing.T) {
	base := NewError(CodeTypeMismatch, "bad")
	withOne := base.WithDetail("member", "x")
	withTwo := withOne.WithDetails(map[string]any{"expected": "number", "actual": "string"})

	if base.Details != nil {
		t.Error("expected WithDetail not to modify the receiver")
	}
	if len(withOne.Details) != 1 {
		t.Errorf("expected 1 detail, got %d", len(withOne.Details))
	}
	if len(withTwo.Details) != 3 {
		t.Errorf("expected 3 details, got %d", len(withTwo.Details))
	}
	if withTwo.WithDetails(nil) != withTwo {
		t.Error("expected WithDetails(nil) to return the receiver")
	}
}

func TestDefaultErrorTransformer(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		wantCode ErrorCode
	}{
		{
			name:     "passthrough",
			input:    NewError(CodeAccessViolation, "private"),
			wantCode: CodeAccessViolation,
		},
		{
			name:     "member conflict",
			input:    &member.ConflictError{Member: "x", Token: "final", Reason: "cannot be both abstract and final"},
			wantCode: CodeDeclarationConflict,
		},
		{
			name:     "generic error",
			input:    errors.New("something failed"),
			wantCode: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DefaultErrorTransformer(tt.input)
			if result.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, result.Code)
			}
		})
	}

	if DefaultErrorTransformer(nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestDefaultErrorTransformer_ConflictDetails(t *testing.T) {
	result := DefaultErrorTransformer(&member.ConflictError{Member: "x", Token: "final", Reason: "conflict"})
	if result.Details["member"] != "x" {
		t.Errorf("expected member detail x, got %v", result.Details["member"])
	}
	if result.Details["token"] != "final" {
		t.Errorf("expected token detail final, got %v", result.Details["token"])
	}
}

func TestDefaultErrorTransformer_ValidationErrors(t *testing.T) {
	err := validate.Struct(Declaration{Name: "9lives"})
	result := DefaultErrorTransformer(err)
	if result.Code != CodeDeclarationConflict {
		t.Errorf("expected code %s, got %s", CodeDeclarationConflict, result.Code)
	}
	if result.Details["Name"] != "must be a valid identifier" {
		t.Errorf("expected identifier message, got %v", result.Details["Name"])
	}
}
