package jobly

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeUnauthorized       = "UNAUTHORIZED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenSignature     = "TOKEN_SIGNATURE_INVALID"
	TextCodeNotFound           = "NOT_FOUND"
	TextCodeConflict           = "CONFLICT"
	TextCodeValidation         = "VALIDATION_FAILED"
	TextCodeInvalidSearch      = "INVALID_SEARCH"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeInvalidReference   = "INVALID_REFERENCE"
)

// ErrUnauthorized is what every guard rejection resolves to. The message
// is the only thing a client ever sees.
var ErrUnauthorized = goerrors.New("Unauthorized", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that cannot be parsed or use
// an unexpected signing method.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is verified after its expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenSignature is returned when the signature does not match the
// payload under the configured secret.
var ErrTokenSignature = goerrors.New("token signature is invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenSignature).
	WithCode(goerrors.CodeUnauthorized)

var ErrNotFound = goerrors.New("Not Found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(goerrors.CodeNotFound)

var ErrConflict = goerrors.New("record already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeConflict).
	WithCode(goerrors.CodeConflict)

// ErrInvalidReference is returned when a row points at a parent that
// does not exist.
var ErrInvalidReference = goerrors.New("referenced record does not exist", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidReference).
	WithCode(goerrors.CodeBadRequest)

// ErrValidation carries the list of failed payload rules in its
// metadata under "errors".
var ErrValidation = goerrors.New("validation failed", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidation).
	WithCode(goerrors.CodeBadRequest)

var ErrInvalidSearch = goerrors.New("invalid search parameters", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidSearch).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidCredentials does not tell apart unknown users from wrong
// passwords.
var ErrInvalidCredentials = goerrors.New("Invalid username & password", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = goerrors.New("password can't be an empty string", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when a password does not match its hash
var ErrMismatchedHashAndPassword = goerrors.New("password does not match hash", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// withMessage clones sentinel with a specific message, keeping sentinel
// as the source so errors.Is still matches.
func withMessage(sentinel *goerrors.Error, format string, args ...any) *goerrors.Error {
	clone := sentinel.Clone()
	if clone == nil {
		return sentinel
	}
	clone.Message = fmt.Sprintf(format, args...)
	clone.Source = sentinel
	return clone
}

// NotFoundError builds a 404 with a resource specific message.
func NotFoundError(format string, args ...any) error {
	return withMessage(ErrNotFound, format, args...)
}

// ValidationError builds a 400 listing every failed rule.
func ValidationError(messages []string) error {
	err := withMessage(ErrValidation, "%s", strings.Join(messages, "; "))
	return err.WithMetadata(map[string]any{"errors": messages})
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed")
}

// IsSignatureError will check for tokens signed with another secret
func IsSignatureError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenSignature)
}
