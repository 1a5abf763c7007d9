package jobly

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload carried by a jobly token
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// NewClaims returns claims for the given user, with no time metadata.
func NewClaims(username string, isAdmin bool) Claims {
	return Claims{Username: username, IsAdmin: isAdmin}
}

// Identity returns the request identity described by the claims
func (c *Claims) Identity() Identity {
	return Identity{Username: c.Username, IsAdmin: c.IsAdmin}
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}

// SameIdentity compares only the identity fields, ignoring the time
// metadata and token id added at issue time.
func (c *Claims) SameIdentity(other *Claims) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Username == other.Username && c.IsAdmin == other.IsAdmin
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims == nil {
		return
	}
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
