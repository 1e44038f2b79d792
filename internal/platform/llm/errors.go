package llm

import (
	"errors"
	"fmt"
)

// Client specific errors
var (
	ErrMissingModel      = errors.New("model name must be provided")
	ErrInvalidBaseURL    = errors.New("invalid base URL")
	ErrUnknownEndpoint   = errors.New("base URL does not end with a known endpoint (/chat or /embed)")
	ErrAmbiguousEndpoint = errors.New("endpoint mode does not match base URL")

	ErrModeMismatch  = errors.New("operation not supported by endpoint mode")
	ErrRequestFailed = errors.New("API request failed")
)

// Error codes
const (
	CodeMissingModel      = "MISSING_MODEL"
	CodeInvalidBaseURL    = "INVALID_BASE_URL"
	CodeUnknownEndpoint   = "UNKNOWN_ENDPOINT"
	CodeAmbiguousEndpoint = "AMBIGUOUS_ENDPOINT"
)

// ConfigurationError is returned by New when the client cannot be built from its Config.
type ConfigurationError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Message == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %s", e.Cause, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

func newConfigurationError(code string, cause error, format string, a ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
		Cause:   cause,
	}
}

// ModeMismatchError reports an operation called on a client configured for the other endpoint.
type ModeMismatchError struct {
	Operation string
	Mode      Mode
	Required  Mode
}

func (e *ModeMismatchError) Error() string {
	return fmt.Sprintf("%s() can only be used with the %s endpoint (%s), client is configured for %s",
		e.Operation, e.Required, e.Required.suffix(), e.Mode)
}

func (e *ModeMismatchError) Is(target error) bool {
	return target == ErrModeMismatch
}

// RequestError carries the status of a non-200 response.
type RequestError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// StatusCode extracts the HTTP status from err, or 0 if err is not a RequestError.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
