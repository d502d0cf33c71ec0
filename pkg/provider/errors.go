package provider

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the provider has no record for the
// requested external id. It is a normal outcome, not an availability
// failure.
var ErrNotFound = errors.New("place not found at provider")

// ErrorClass represents a classification of provider failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses other than 404.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures and timeouts.
	ErrorClassNetwork ErrorClass = "network"
)

// ProviderError carries the classification and HTTP context of a failed
// provider lookup.
type ProviderError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to an error class.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 500:
		return ErrorClassServer
	case statusCode >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}

// IsUnavailable reports whether err means the provider could not answer
// (as opposed to answering "no such place"). Callers use this to decide
// between degraded-mode fallback and a genuine not-found.
func IsUnavailable(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	return true
}
