package jobly

import (
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenOptions controls expiry metadata added at issue time.
type TokenOptions struct {
	// Expiration is added to the issue instant. Zero issues tokens
	// without an exp claim.
	Expiration time.Duration
	Issuer     string
	Audience   []string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// TokenService issues and verifies HS256 tokens with a shared secret
type TokenService struct {
	secret   []byte
	opts     TokenOptions
	audience jwt.ClaimStrings
	logger   Logger
}

var (
	_ TokenIssuer   = (*TokenService)(nil)
	_ TokenVerifier = (*TokenService)(nil)
)

// NewTokenService creates a new TokenService instance
func NewTokenService(secret []byte, opts TokenOptions, logger Logger) *TokenService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	var aud jwt.ClaimStrings
	if len(opts.Audience) > 0 {
		aud = append(aud, opts.Audience...)
	}

	return &TokenService{
		secret:   secret,
		opts:     opts,
		audience: aud,
		logger:   normalizeLogger(logger),
	}
}

// TokenServiceFromConfig wires a TokenService from Config getters
func TokenServiceFromConfig(cfg Config, logger Logger) *TokenService {
	return NewTokenService([]byte(cfg.GetSigningKey()), TokenOptions{
		Expiration: cfg.GetTokenExpiration(),
		Issuer:     cfg.GetIssuer(),
		Audience:   cfg.GetAudience(),
	}, logger)
}

// Issue signs the identity in claims, adding subject, issue time, expiry
// and a token id.
func (ts *TokenService) Issue(claims Claims) (string, error) {
	if claims.Username == "" {
		return "", errors.New("claims username is required", errors.CategoryBadInput)
	}

	now := ts.opts.Clock()

	out := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ts.opts.Issuer,
			Subject:  claims.Username,
			Audience: ts.audience,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username: claims.Username,
		IsAdmin:  claims.IsAdmin,
	}

	if ts.opts.Expiration > 0 {
		out.ExpiresAt = jwt.NewNumericDate(now.Add(ts.opts.Expiration))
	}

	ensureTokenID(&out.RegisteredClaims)

	return ts.SignClaims(out)
}

// SignClaims signs claims as given using the configured secret.
func (ts *TokenService) SignClaims(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Verify parses tokenString and checks signature and expiry.
func (ts *TokenService) Verify(tokenString string) (*Claims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.opts.Clock),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ts.opts.Issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.opts.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Debug("token verify found unexpected signing method %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, withMessage(ErrTokenMalformed, "%s", ErrTokenMalformed.Message).
				WithMetadata(map[string]any{"cause": err.Error()})
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, ErrTokenMalformed
	}

	if !ts.acceptsAudience(claims.Audience) {
		return nil, withMessage(ErrTokenMalformed, "%s", ErrTokenMalformed.Message).
			WithMetadata(map[string]any{"cause": jwt.ErrTokenInvalidAudience.Error()})
	}

	return claims, nil
}

// acceptsAudience reports whether aud names at least one configured
// audience. Services without an audience accept any token.
func (ts *TokenService) acceptsAudience(aud jwt.ClaimStrings) bool {
	if len(ts.audience) == 0 {
		return true
	}
	return slices.ContainsFunc(aud, func(a string) bool {
		return slices.Contains(ts.audience, a)
	})
}
