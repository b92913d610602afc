package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error types for better error handling
type ErrorType string

const (
	ErrorTypeCredential ErrorType = "credential"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeGitHub     ErrorType = "github"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeCrypto     ErrorType = "crypto"
	ErrorTypeFileSystem ErrorType = "filesystem"
)

// Kind identifies a specific failure condition within an ErrorType
type Kind string

const (
	KindCredentialNotFound   Kind = "credential_not_found"
	KindMalformedCredential  Kind = "malformed_credential"
	KindCredentialUnreadable Kind = "credential_unreadable"
	KindRemoteKeyFetch       Kind = "remote_key_fetch"
	KindUploadTransport      Kind = "upload_transport"
	KindMissingCryptoLibrary Kind = "missing_crypto_library"
	KindInvalidConfiguration Kind = "invalid_configuration"
)

// ProvisionError represents a structured error with context
type ProvisionError struct {
	Type    ErrorType
	Kind    Kind
	Message string
	Hint    string
	Err     error
}

func (e *ProvisionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// UserFriendlyMessage returns a user-friendly error message with hint
func (e *ProvisionError) UserFriendlyMessage() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nSuggestion: " + e.Hint
	}
	return msg
}

// New creates a new ProvisionError
func New(errType ErrorType, message string) *ProvisionError {
	return &ProvisionError{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an existing error with context
func Wrap(errType ErrorType, message string, err error) *ProvisionError {
	return &ProvisionError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// WithHint adds a hint to an error
func WithHint(err *ProvisionError, hint string) *ProvisionError {
	err.Hint = hint
	return err
}

func withKind(err *ProvisionError, kind Kind) *ProvisionError {
	err.Kind = kind
	return err
}

// Is reports whether err carries the given kind anywhere in its chain
func Is(err error, kind Kind) bool {
	var pe *ProvisionError
	for err != nil {
		if !stderrors.As(err, &pe) {
			return false
		}
		if pe.Kind == kind {
			return true
		}
		err = pe.Err
	}
	return false
}

// IsFatal reports whether err must terminate the process with a non-zero
// status. Everything else degrades to the manual setup instructions.
func IsFatal(err error) bool {
	switch {
	case Is(err, KindCredentialNotFound),
		Is(err, KindMalformedCredential),
		Is(err, KindCredentialUnreadable),
		Is(err, KindMissingCryptoLibrary),
		Is(err, KindInvalidConfiguration):
		return true
	}
	return false
}

// Common error constructors

func CredentialNotFound(paths []string) *ProvisionError {
	return withKind(WithHint(
		New(ErrorTypeCredential, fmt.Sprintf("No token file found at %s", strings.Join(paths, " or "))),
		"Please run the download script first to authenticate with GitHub:\n"+
			"  python scripts/download_and_index.py --debug\n\n"+
			"This will authenticate you with GitHub and save the token locally.\n"+
			"Then run this command again to enable hourly updates.",
	), KindCredentialNotFound)
}

func MalformedCredential(path string, err error) *ProvisionError {
	return withKind(WithHint(
		Wrap(ErrorTypeCredential, fmt.Sprintf("Token file %s exists but doesn't contain access_token", path), err),
		"Delete the file and run the download script again to re-authenticate.",
	), KindMalformedCredential)
}

func CredentialUnreadable(path string, err error) *ProvisionError {
	return withKind(WithHint(
		Wrap(ErrorTypeFileSystem, fmt.Sprintf("Error reading token file %s", path), err),
		"Check that the file is readable by the current user.",
	), KindCredentialUnreadable)
}

func RemoteKeyFetch(repo string, err error) *ProvisionError {
	return withKind(WithHint(
		Wrap(ErrorTypeGitHub, fmt.Sprintf("Failed to get repository public key for %s", repo), err),
		"Check that the token has access to the repository and that the repository name in config.ini is correct.",
	), KindRemoteKeyFetch)
}

func UploadTransport(secretName string, err error) *ProvisionError {
	return withKind(WithHint(
		Wrap(ErrorTypeNetwork, fmt.Sprintf("Request failed while creating secret %s", secretName), err),
		"Check your internet connection. If the problem persists, GitHub may be unavailable.",
	), KindUploadTransport)
}

func MissingCryptoLibrary(err error) *ProvisionError {
	return withKind(WithHint(
		Wrap(ErrorTypeCrypto, "Sealed-box encryption is unavailable", err),
		"Rebuild the binary with golang.org/x/crypto available: go install github.com/lcgerke/gamecache-secrets/cmd/gamecache-secrets@latest",
	), KindMissingCryptoLibrary)
}

func InvalidConfiguration(key, reason string) *ProvisionError {
	return withKind(WithHint(
		New(ErrorTypeConfig, fmt.Sprintf("Invalid configuration for '%s': %s", key, reason)),
		"Run 'gamecache-secrets check' to review your setup.",
	), KindInvalidConfiguration)
}
