package jobly

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Logger is the logging surface used across the package
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the settings the token service, guards and controllers
// need. It is passed explicitly, nothing reads it from globals.
type Config interface {
	GetSigningKey() string
	GetContextKey() string
	GetTokenExpiration() time.Duration
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetBcryptCost() int
}

// TokenIssuer signs claims for the login and registration endpoints.
type TokenIssuer interface {
	Issue(claims Claims) (string, error)
}

// TokenVerifier turns a raw token back into claims.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// CredentialStore resolves login credentials.
type CredentialStore interface {
	Credentials(ctx context.Context, username string) (*User, error)
}

// FiberLogger writes through fiber's leveled logger.
type FiberLogger struct {
	Prefix string
}

// NewLogger returns a Logger prefixed with the given component name.
func NewLogger(prefix string) Logger {
	return FiberLogger{Prefix: prefix}
}

func (l FiberLogger) Debug(format string, args ...any) {
	log.Debugf(l.Prefix+format, args...)
}

func (l FiberLogger) Info(format string, args ...any) {
	log.Infof(l.Prefix+format, args...)
}

func (l FiberLogger) Warn(format string, args ...any) {
	log.Warnf(l.Prefix+format, args...)
}

func (l FiberLogger) Error(format string, args ...any) {
	log.Errorf(l.Prefix+format, args...)
}

var defLogger Logger = FiberLogger{Prefix: "JOBLY "}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger
	}
	return l
}
