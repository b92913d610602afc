package remote

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType categorizes API errors for better handling
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// APIError wraps errors with additional context for better error handling
// and user feedback.
type APIError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is and errors.As support
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a structured API error
func NewAPIError(errType ErrorType, statusCode int, message string, err error) *APIError {
	return &APIError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ClassifyGitHubError determines error type from HTTP status code
// and provides user-friendly error messages
func ClassifyGitHubError(statusCode int, err error) *APIError {
	switch statusCode {
	case http.StatusUnauthorized:
		return NewAPIError(ErrorTypeAuth, statusCode,
			"Invalid or expired token. Please re-authenticate.", err)
	case http.StatusForbidden:
		return NewAPIError(ErrorTypePermission, statusCode,
			"Insufficient permissions. The token needs access to repository secrets.", err)
	case http.StatusNotFound:
		return NewAPIError(ErrorTypeNotFound, statusCode,
			"Resource not found. Check repository name and access.", err)
	case http.StatusUnprocessableEntity:
		return NewAPIError(ErrorTypeValidation, statusCode,
			"GitHub rejected the request.", err)
	case http.StatusTooManyRequests:
		return NewAPIError(ErrorTypeRateLimit, statusCode,
			"GitHub API rate limit exceeded. Please wait.", err)
	default:
		if statusCode >= 500 {
			return NewAPIError(ErrorTypeNetwork, statusCode,
				"GitHub API temporary error.", err)
		}
		return NewAPIError(ErrorTypeUnknown, statusCode,
			"Unexpected error occurred.", err)
	}
}

// UploadHTTPError is returned when GitHub answers a secret upload with an
// error status
type UploadHTTPError struct {
	SecretName string
	StatusCode int
	// GitHubMessage is the message field of the error body, if any
	GitHubMessage string
	// ValidationErrors lists the entries of the errors field, if any
	ValidationErrors []string
	// Body is the raw error body
	Body string
	Err  *APIError
}

func (e *UploadHTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *UploadHTTPError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

// Details returns the lines worth showing to the user
func (e *UploadHTTPError) Details() []string {
	lines := []string{e.Error()}
	if e.Body != "" {
		lines = append(lines, "Error details: "+strings.TrimSpace(e.Body))
	}
	if e.GitHubMessage != "" {
		lines = append(lines, "GitHub says: "+e.GitHubMessage)
	}
	if len(e.ValidationErrors) > 0 {
		lines = append(lines, "Validation errors:")
		for _, v := range e.ValidationErrors {
			lines = append(lines, "   - "+v)
		}
	}
	return lines
}

// IsAuthError checks if error is authentication-related
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeAuth
	}
	return false
}

// IsPermissionError checks if error is permission-related
func IsPermissionError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypePermission
	}
	return false
}

// IsNotFound checks if error is a 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeNotFound
	}
	return false
}
