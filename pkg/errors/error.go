package errors

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrorType defines distinct categories for errors raised by clipfinder components.
type ErrorType string

const (
	// StatsAPIError represents transient failures talking to the stats service
	// (transport, non-2xx status, undecodable body). Callers log and continue.
	StatsAPIError ErrorType = "stats_api_error"
	// MissingResourceError represents an expected local input (directory, cut list)
	// that is absent. It aborts the stage before any work is done.
	MissingResourceError ErrorType = "missing_resource_error"
	// PlayerResolutionError represents a player name that could not be found in the directory.
	PlayerResolutionError ErrorType = "player_resolution_error"
	// DataJoinError represents a mapping row without a cut (or the reverse).
	DataJoinError ErrorType = "data_join_error"
	// LedgerError represents failures reading or writing the processed-games ledger.
	LedgerError ErrorType = "ledger_error"
	// MappingError represents failures reading or writing the mapping table.
	MappingError ErrorType = "mapping_error"
	// MediaError represents a failed media-fetch or media-trim invocation.
	MediaError ErrorType = "media_error"
	// ValidationError represents errors caused by invalid configuration or input.
	ValidationError ErrorType = "validation_error"
	// SystemError represents underlying system issues such as file I/O.
	SystemError ErrorType = "system_error"
)

// StructuredError represents a detailed error originating from clipfinder operations.
// It includes a type, message, optional details, timestamp, and a specific error code.
type StructuredError struct {
	// Type categorizes the error (e.g., StatsAPIError, LedgerError).
	Type ErrorType `json:"type"`
	// Message provides a concise, human-readable description of the error.
	Message string `json:"message"`
	// Details offers additional context or the underlying error message, if available.
	Details string `json:"details,omitempty"`
	// Timestamp marks when the error occurred in RFC3339 format.
	Timestamp string `json:"timestamp"`
	// Code provides a specific integer code, see error_codes.go.
	Code int `json:"code"`

	cause error
}

// Error implements the standard `error` interface for StructuredError.
func (e *StructuredError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Message, e.Details)
}

// Unwrap returns the wrapped error, if any, so errors.Is/As see through it.
func (e *StructuredError) Unwrap() error {
	return e.cause
}

// JSON returns the StructuredError serialized as a JSON string.
func (e *StructuredError) JSON() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New creates a new StructuredError instance stamped with the current time.
func New(errorType ErrorType, message, details string, code int) *StructuredError {
	return &StructuredError{
		Type:      errorType,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Format(time.RFC3339),
		Code:      code,
	}
}

// Wrap creates a new StructuredError around err. The message of err becomes
// Details and err stays reachable through Unwrap.
// If err is nil, Details will be empty.
func Wrap(err error, errorType ErrorType, message string, code int) *StructuredError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	e := New(errorType, message, details, code)
	e.cause = err
	return e
}

// Is reports whether err is a StructuredError of the given type.
func Is(err error, errorType ErrorType) bool {
	for err != nil {
		if se, ok := err.(*StructuredError); ok && se.Type == errorType {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
