package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestProviderError_Error(t *testing.T) {
	err := &ProviderError{
		StatusCode: 503,
		ErrorClass: ErrorClassServer,
		Message:    "503 Service Unavailable",
	}

	msg := err.Error()
	if msg == "" {
		t.Fatal("Error message should not be empty")
	}

	wrapped := &ProviderError{
		ErrorClass: ErrorClassNetwork,
		Message:    "provider unreachable",
		Err:        errors.New("dial tcp: connection refused"),
	}
	if wrapped.Error() == msg {
		t.Error("Wrapped and unwrapped errors should format differently")
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &ProviderError{
		ErrorClass: ErrorClassNetwork,
		Message:    "provider unreachable",
		Err:        inner,
	}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		want       ErrorClass
	}{
		{statusCode: 400, want: ErrorClassClient},
		{statusCode: 403, want: ErrorClassClient},
		{statusCode: 429, want: ErrorClassClient},
		{statusCode: 500, want: ErrorClassServer},
		{statusCode: 503, want: ErrorClassServer},
		{statusCode: 200, want: ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			if got := classifyStatus(tt.statusCode); got != tt.want {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.statusCode, got, tt.want)
			}
		})
	}
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "not_found", err: ErrNotFound, want: false},
		{name: "wrapped_not_found", err: fmt.Errorf("lookup: %w", ErrNotFound), want: false},
		{name: "server_error", err: &ProviderError{ErrorClass: ErrorClassServer}, want: true},
		{name: "network_error", err: &ProviderError{ErrorClass: ErrorClassNetwork}, want: true},
		{name: "plain_error", err: errors.New("boom"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnavailable(tt.err); got != tt.want {
				t.Errorf("IsUnavailable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
