package llm

import "fmt"

// ProviderError is returned when a provider call fails or yields no text.
type ProviderError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
