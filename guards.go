package jobly

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-jobly/middleware/jwtware"
)

const defaultTokenLookup = "header:Authorization,body:_token,query:_token"

// CheckLoggedIn rejects anonymous requests
func CheckLoggedIn(id *Identity) error {
	if id == nil || id.Username == "" {
		return ErrUnauthorized
	}
	return nil
}

// CheckSameIdentity rejects requests not made by username. Admins are
// not exempt.
func CheckSameIdentity(id *Identity, username string) error {
	if err := CheckLoggedIn(id); err != nil {
		return err
	}
	if id.Username != username {
		return ErrUnauthorized
	}
	return nil
}

// CheckAdmin rejects requests without the admin flag
func CheckAdmin(id *Identity) error {
	if err := CheckLoggedIn(id); err != nil {
		return err
	}
	if !id.IsAdmin {
		return ErrUnauthorized
	}
	return nil
}

// Guards builds the per route middleware chains. Authenticate attaches
// an identity when it can and never rejects; the Require handlers do
// the rejecting.
type Guards struct {
	tokens      TokenVerifier
	contextKey  string
	tokenLookup string
	authScheme  string
	logger      Logger

	authenticate fiber.Handler
}

// GuardsOption configures Guards
type GuardsOption func(*Guards)

// WithGuardsLogger sets the logger used to report discarded tokens
func WithGuardsLogger(logger Logger) GuardsOption {
	return func(g *Guards) {
		g.logger = normalizeLogger(logger)
	}
}

// WithTokenLookup overrides where tokens are looked for, using the
// jwtware "<source>:<name>" list syntax.
func WithTokenLookup(lookup string) GuardsOption {
	return func(g *Guards) {
		if lookup != "" {
			g.tokenLookup = lookup
		}
	}
}

// WithContextKey overrides the fiber locals key for the identity
func WithContextKey(key string) GuardsOption {
	return func(g *Guards) {
		if key != "" {
			g.contextKey = key
		}
	}
}

// WithAuthScheme overrides the Authorization header scheme
func WithAuthScheme(scheme string) GuardsOption {
	return func(g *Guards) {
		if scheme != "" {
			g.authScheme = scheme
		}
	}
}

// NewGuards creates guards that verify tokens with tokens
func NewGuards(tokens TokenVerifier, opts ...GuardsOption) *Guards {
	g := &Guards{
		tokens:      tokens,
		contextKey:  DefaultContextKey,
		tokenLookup: defaultTokenLookup,
		authScheme:  "Bearer",
		logger:      defLogger,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.authenticate = jwtware.New(jwtware.Config{
		Optional:    true,
		ContextKey:  claimsLocalsKey(g.contextKey),
		TokenLookup: g.tokenLookup,
		AuthScheme:  g.authScheme,
		TokenValidator: jwtware.TokenValidatorFunc(func(raw string) (any, error) {
			return g.tokens.Verify(raw)
		}),
		ValidationListeners: []jwtware.ValidationListener{
			func(c *fiber.Ctx, claims any) error {
				if cl, ok := claims.(*Claims); ok {
					id := cl.Identity()
					SetIdentity(c, g.contextKey, &id)
				}
				return nil
			},
		},
		FailureListener: func(c *fiber.Ctx, err error) {
			if err == jwtware.ErrJWTMissingOrMalformed {
				return
			}
			g.logger.Debug("discarding token on %s %s: %v", c.Method(), c.Path(), err)
		},
	})

	return g
}

// claimsLocalsKey is where jwtware keeps the raw claims. It is derived
// from the identity key so the two never share a slot.
func claimsLocalsKey(identityKey string) string {
	return identityKey + ".claims"
}

// GuardsFromConfig wires guards from Config getters
func GuardsFromConfig(cfg Config, tokens TokenVerifier, logger Logger) *Guards {
	return NewGuards(tokens,
		WithGuardsLogger(logger),
		WithTokenLookup(cfg.GetTokenLookup()),
		WithContextKey(cfg.GetContextKey()),
		WithAuthScheme(cfg.GetAuthScheme()),
	)
}

// Authenticate attaches the request identity when a valid token is
// present and always continues.
func (g *Guards) Authenticate(c *fiber.Ctx) error {
	return g.authenticate(c)
}

// RequireLoggedIn rejects anonymous requests with 401
func (g *Guards) RequireLoggedIn(c *fiber.Ctx) error {
	id, _ := IdentityFromFiber(c, g.contextKey)
	if err := CheckLoggedIn(id); err != nil {
		return err
	}
	return c.Next()
}

// RequireSameIdentity rejects requests whose identity does not match the
// route parameter param.
func (g *Guards) RequireSameIdentity(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := IdentityFromFiber(c, g.contextKey)
		if err := CheckSameIdentity(id, c.Params(param)); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests from non admin identities
func (g *Guards) RequireAdmin(c *fiber.Ctx) error {
	id, _ := IdentityFromFiber(c, g.contextKey)
	if err := CheckAdmin(id); err != nil {
		return err
	}
	return c.Next()
}

// Identity returns the identity attached to the request, if any
func (g *Guards) Identity(c *fiber.Ctx) (*Identity, bool) {
	return IdentityFromFiber(c, g.contextKey)
}

// Public only authenticates, so handlers may still see an identity
func (g *Guards) Public() []fiber.Handler {
	return []fiber.Handler{g.Authenticate}
}

// LoggedIn is authenticate then RequireLoggedIn
func (g *Guards) LoggedIn() []fiber.Handler {
	return []fiber.Handler{g.Authenticate, g.RequireLoggedIn}
}

// SameUser is authenticate, RequireLoggedIn then RequireSameIdentity(param)
func (g *Guards) SameUser(param string) []fiber.Handler {
	return []fiber.Handler{g.Authenticate, g.RequireLoggedIn, g.RequireSameIdentity(param)}
}

// Admin is authenticate, RequireLoggedIn then RequireAdmin
func (g *Guards) Admin() []fiber.Handler {
	return []fiber.Handler{g.Authenticate, g.RequireLoggedIn, g.RequireAdmin}
}
