package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthCredentials    ErrorCode = "AUTH-001"
	ErrCodeAuthNotLoggedIn    ErrorCode = "AUTH-002"
	ErrCodeAuthSessionExpired ErrorCode = "AUTH-003"
	ErrCodeAuthRefreshFailed  ErrorCode = "AUTH-004"
	ErrCodeAuthRegistration   ErrorCode = "AUTH-005"
	ErrCodeAuthValidation     ErrorCode = "AUTH-006"

	// Platform API errors (API-001 to API-099)
	ErrCodeAPIUnreachable  ErrorCode = "API-001"
	ErrCodeAPIRequest      ErrorCode = "API-002"
	ErrCodeAPIResponse     ErrorCode = "API-003"
	ErrCodeAPITimeout      ErrorCode = "API-004"
	ErrCodeAPINotFound     ErrorCode = "API-005"
	ErrCodeAPIUnauthorized ErrorCode = "API-006"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound  ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid   ErrorCode = "CONFIG-002"
	ErrCodeConfigUnmarshal ErrorCode = "CONFIG-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// ConsoleError represents an enhanced error with code, suggestions, and documentation
type ConsoleError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *ConsoleError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ConsoleError) Unwrap() error {
	return e.Cause
}

// New creates a new ConsoleError
func New(code ErrorCode, message string) *ConsoleError {
	return &ConsoleError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new ConsoleError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *ConsoleError {
	return &ConsoleError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *ConsoleError) WithSuggestion(suggestion string) *ConsoleError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *ConsoleError) WithSuggestions(suggestions ...string) *ConsoleError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *ConsoleError) WithDocs(url string) *ConsoleError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewNotLoggedInError creates an error for commands that require a session
func NewNotLoggedInError() *ConsoleError {
	return New(ErrCodeAuthNotLoggedIn, "not logged in").
		WithSuggestion("Run 'maas auth login' to authenticate").
		WithSuggestion("Check 'maas auth status' to inspect the current session")
}

// NewSessionExpiredError creates an error for an irrecoverably expired session
func NewSessionExpiredError() *ConsoleError {
	return New(ErrCodeAuthSessionExpired, "session expired").
		WithSuggestion("Run 'maas auth login' to start a new session")
}

// NewAPIUnreachableError creates an error for a platform that cannot be reached
func NewAPIUnreachableError(baseURL string, cause error) *ConsoleError {
	return Wrap(ErrCodeAPIUnreachable, fmt.Sprintf("platform unreachable: %s", baseURL), cause).
		WithSuggestion("Check the api_url setting in your config file").
		WithSuggestion("Verify the MAAS platform is running and accessible")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *ConsoleError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Check the config file syntax").
		WithSuggestion("Remove the config file to fall back to defaults")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *ConsoleError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *ConsoleError {
	return Wrap(ErrCodeConfigUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
