package validation

import "fmt"

// Error represents a markup validation failure outside the rule battery,
// such as an unreadable document or a failed fetch.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
