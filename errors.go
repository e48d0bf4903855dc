package objmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/broady/objmodel/member"
	"github.com/go-playground/validator/v10"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// Declaration-time codes. The declaration is aborted and nothing is published.
	CodeDeclarationConflict  ErrorCode = "declaration_conflict"
	CodeInheritanceViolation ErrorCode = "inheritance_violation"
	CodeOverloadConflict     ErrorCode = "overload_conflict"

	// Call-time codes. Only the failing call is aborted.
	CodeTypeMismatch      ErrorCode = "type_mismatch"
	CodeDispatchFailure   ErrorCode = "dispatch_failure"
	CodeResolutionFailure ErrorCode = "resolution_failure"
	CodeAccessViolation   ErrorCode = "access_violation"
	CodeInstantiation     ErrorCode = "instantiation_failure"

	CodeInternal ErrorCode = "internal"
)

// Sentinel errors for use with errors.Is. An *Error matches a sentinel when
// their codes are equal.
var (
	ErrDeclarationConflict  = &Error{Code: CodeDeclarationConflict}
	ErrInheritanceViolation = &Error{Code: CodeInheritanceViolation}
	ErrOverloadConflict     = &Error{Code: CodeOverloadConflict}
	ErrTypeMismatch         = &Error{Code: CodeTypeMismatch}
	ErrDispatchFailure      = &Error{Code: CodeDispatchFailure}
	ErrResolutionFailure    = &Error{Code: CodeResolutionFailure}
	ErrAccessViolation      = &Error{Code: CodeAccessViolation}
	ErrInstantiation        = &Error{Code: CodeInstantiation}
)

// Error is the structured error returned by declarations and calls.
// Details carries the identifying fields of the violation, such as
// "type", "member", "expected" and "actual".
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is a sentinel (message-less) *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// WithDetails returns a new Error with the provided map merged into details.
// For multiple details, this is more efficient than chaining WithDetail calls.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: merged,
	}
}

// CodeOf returns the code of err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ErrorTransformer maps an arbitrary error to an *Error.
// If it returns nil, DefaultErrorTransformer is applied.
type ErrorTransformer func(error) *Error

// DefaultErrorTransformer maps errors produced while declaring a type to *Error.
func DefaultErrorTransformer(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var ce *member.ConflictError
	if errors.As(err, &ce) {
		return Errorf(CodeDeclarationConflict, "%s", ce.Error()).WithDetails(map[string]any{
			"member": ce.Member,
			"token":  ce.Token,
		})
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		details := make(map[string]any)
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			msg := formatValidationError(ve)
			details[ve.Field()] = msg
			messages = append(messages, ve.Field()+": "+msg)
		}
		return &Error{
			Code:    CodeDeclarationConflict,
			Message: strings.Join(messages, "; "),
			Details: details,
		}
	}

	return NewError(CodeInternal, err.Error())
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "identifier":
		return "must be a valid identifier"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

func declarationConflict(typeName, memberName, format string, args ...any) *Error {
	e := Errorf(CodeDeclarationConflict, format, args...).WithDetail("type", typeName)
	if memberName != "" {
		e = e.WithDetail("member", memberName)
	}
	return e
}

func inheritanceViolation(typeName, memberName, format string, args ...any) *Error {
	e := Errorf(CodeInheritanceViolation, format, args...).WithDetail("type", typeName)
	if memberName != "" {
		e = e.WithDetail("member", memberName)
	}
	return e
}
