package remote

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := NewAPIError(ErrorTypeAuth, 401, "Invalid token", nil)
	if got := err.Error(); got != "authentication error: Invalid token" {
		t.Errorf("Error() = %q, want %q", got, "authentication error: Invalid token")
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewAPIError(ErrorTypeNetwork, 500, "server error", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}
}

func TestClassifyGitHubError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantType   ErrorType
	}{
		{"401 unauthorized", http.StatusUnauthorized, ErrorTypeAuth},
		{"403 forbidden", http.StatusForbidden, ErrorTypePermission},
		{"404 not found", http.StatusNotFound, ErrorTypeNotFound},
		{"422 unprocessable", http.StatusUnprocessableEntity, ErrorTypeValidation},
		{"429 rate limit", http.StatusTooManyRequests, ErrorTypeRateLimit},
		{"500 server error", http.StatusInternalServerError, ErrorTypeNetwork},
		{"503 service unavailable", http.StatusServiceUnavailable, ErrorTypeNetwork},
		{"400 bad request", http.StatusBadRequest, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := ClassifyGitHubError(tt.statusCode, errors.New("x"))

			if apiErr.Type != tt.wantType {
				t.Errorf("ClassifyGitHubError() Type = %v, want %v", apiErr.Type, tt.wantType)
			}
			if apiErr.StatusCode != tt.statusCode {
				t.Errorf("ClassifyGitHubError() StatusCode = %v, want %v", apiErr.StatusCode, tt.statusCode)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	auth := ClassifyGitHubError(http.StatusUnauthorized, nil)
	perm := ClassifyGitHubError(http.StatusForbidden, nil)
	missing := fmt.Errorf("fetch: %w", ClassifyGitHubError(http.StatusNotFound, nil))

	if !IsAuthError(auth) || IsAuthError(perm) || IsAuthError(nil) {
		t.Error("IsAuthError() misclassified")
	}
	if !IsPermissionError(perm) || IsPermissionError(auth) {
		t.Error("IsPermissionError() misclassified")
	}
	if !IsNotFound(missing) || IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound() misclassified")
	}
}

func TestUploadHTTPError_Details(t *testing.T) {
	err := &UploadHTTPError{
		SecretName:       "GAMECACHE_GITHUB_TOKEN",
		StatusCode:       http.StatusUnprocessableEntity,
		GitHubMessage:    "Validation Failed",
		ValidationErrors: []string{"encrypted_value is invalid"},
		Body:             `{"message":"Validation Failed"}`,
		Err:              ClassifyGitHubError(http.StatusUnprocessableEntity, nil),
	}

	if got := err.Error(); got != "HTTP 422: Unprocessable Entity" {
		t.Errorf("Error() = %q", got)
	}

	details := strings.Join(err.Details(), "\n")
	for _, want := range []string{
		"HTTP 422: Unprocessable Entity",
		`Error details: {"message":"Validation Failed"}`,
		"GitHub says: Validation Failed",
		"Validation errors:",
		"   - encrypted_value is invalid",
	} {
		if !strings.Contains(details, want) {
			t.Errorf("Details() missing %q, got:\n%s", want, details)
		}
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Type != ErrorTypeValidation {
		t.Error("UploadHTTPError should unwrap to a validation APIError")
	}
}
