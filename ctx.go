package jobly

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// DefaultContextKey is the fiber locals key holding the request identity
const DefaultContextKey = "user"

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// Identity is who a request acts as. It lives for one request only.
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// WithIdentity sets the Identity in the given context
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext finds the identity in the standard context
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	raw, ok := ctx.Value(identityCtxKey).(*Identity)
	return raw, ok && raw != nil
}

// SetIdentity stores the identity in the fiber locals and propagates it
// to the user context.
func SetIdentity(c *fiber.Ctx, key string, id *Identity) {
	if key == "" {
		key = DefaultContextKey
	}
	c.Locals(key, id)
	c.SetUserContext(WithIdentity(c.UserContext(), id))
}

// IdentityFromFiber extracts the identity from the fiber locals. A missing
// or mistyped value means the request is anonymous.
func IdentityFromFiber(c *fiber.Ctx, key string) (*Identity, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw, ok := c.Locals(key).(*Identity)
	return raw, ok && raw != nil
}
