package jobly

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Authenticator checks credentials and mints tokens for users
type Authenticator struct {
	store  CredentialStore
	hasher PasswordAuthenticator
	tokens TokenIssuer
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store CredentialStore, hasher PasswordAuthenticator, tokens TokenIssuer) *Authenticator {
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	return &Authenticator{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: defLogger,
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	a.logger = normalizeLogger(logger)
	return a
}

// Login verifies username and password and returns a signed token. An
// unknown user and a wrong password produce the same error.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	user, err := a.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}
	return a.TokenFor(user)
}

// Verify returns the stored user when password matches its hash
func (a *Authenticator) Verify(ctx context.Context, username, password string) (*User, error) {
	user, err := a.store.Credentials(ctx, username)
	if err != nil {
		if goerrors.IsNotFound(err) {
			a.logger.Debug("login for unknown user %q", username)
			return nil, ErrInvalidCredentials
		}
		a.logger.Error("login lookup error: %v", err)
		return nil, err
	}

	if err := a.hasher.ComparePasswordAndHash(password, user.Password); err != nil {
		a.logger.Debug("login password mismatch for %q", username)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// TokenFor signs a token carrying the username and admin flag of user
func (a *Authenticator) TokenFor(user *User) (string, error) {
	if user == nil || user.Username == "" {
		return "", goerrors.New("user is required", goerrors.CategoryBadInput)
	}
	return a.tokens.Issue(NewClaims(user.Username, user.IsAdmin))
}
