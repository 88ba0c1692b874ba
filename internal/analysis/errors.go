package analysis

import "fmt"

// Error represents a failed analysis or generation request.
type Error struct {
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// InputError is returned for requests that never reach the model.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}
