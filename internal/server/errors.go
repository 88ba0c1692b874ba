package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/a11y-toolkit/internal/analysis"
	"github.com/jonathan/a11y-toolkit/internal/fetch"
	"github.com/jonathan/a11y-toolkit/internal/llm"
	"github.com/jonathan/a11y-toolkit/internal/pdftext"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrMissingAPIKey indicates no key was supplied or configured for provider
type ErrMissingAPIKey struct {
	Provider llm.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	label := string(e.Provider)
	if info, ok := llm.Defaults(e.Provider); ok {
		label = info.Label
	}
	return fmt.Sprintf("API key is required. Please enter your %s API key.", label)
}

// ErrStoreUnavailable indicates report persistence is not configured
type ErrStoreUnavailable struct{}

func (e *ErrStoreUnavailable) Error() string {
	return "report storage is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		keyErr        *ErrMissingAPIKey
		storeErr      *ErrStoreUnavailable
		inputErr      *analysis.InputError
		analysisErr   *analysis.Error
		pdfErr        *pdftext.ExtractionError
		fetchErr      *fetch.Error
		providerErr   *llm.ProviderError
		tooLarge      *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr), errors.As(err, &inputErr), errors.As(err, &keyErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &pdfErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr), errors.As(err, &providerErr), errors.As(err, &analysisErr):
		return http.StatusBadGateway
	case errors.As(err, &storeErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
