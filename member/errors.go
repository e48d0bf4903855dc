package member

import "fmt"

// ConflictError reports a member key that violates the member grammar.
type ConflictError struct {
	// Member is the member name, or the raw key when no name could be extracted.
	Member string

	// Token is the offending token, if any.
	Token string

	// Reason is a human-readable description of the violated rule.
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("member %q: %s", e.Member, e.Reason)
	}
	return fmt.Sprintf("member %q: %s (%q)", e.Member, e.Reason, e.Token)
}

func conflict(name, token, format string, args ...any) *ConflictError {
	return &ConflictError{
		Member: name,
		Token:  token,
		Reason: fmt.Sprintf(format, args...),
	}
}
