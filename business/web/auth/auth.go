// Package auth provides the issuing and validation of the admin tokens used
// to reach the node's private API.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the issuer recorded on every token.
const Issuer = "notechain node"

// RoleAdmin is the role required for the private API.
const RoleAdmin = "ADMIN"

// Set of errors returned by the auth package.
var (
	ErrMissingSecret = errors.New("signing secret must be provided")
	ErrMissingToken  = errors.New("expected authorization header format: Bearer <token>")
	ErrForbidden     = errors.New("attempted action is not allowed")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// Authorized returns true if the claims has at least one of the provided roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, has := range c.Roles {
		for _, want := range roles {
			if has == want {
				return true
			}
		}
	}
	return false
}

// Auth is used to issue and validate HS256 tokens.
type Auth struct {
	secret []byte
	now    func() time.Time
}

// New constructs an Auth for the specified secret.
func New(secret string, now func() time.Time) (*Auth, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	if now == nil {
		now = time.Now
	}

	a := Auth{
		secret: []byte(secret),
		now:    now,
	}

	return &a, nil
}

// GenerateToken issues a signed token for the subject and roles.
func (a *Auth) GenerateToken(subject string, ttl time.Duration, roles ...string) (string, error) {
	now := a.now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses the token string and returns its claims.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	keyFunc := func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", token.Method.Alg())
		}
		return a.secret, nil
	}

	_, err := jwt.ParseWithClaims(tokenStr, &claims, keyFunc,
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("parsing token: %w", err)
	}

	return claims, nil
}

// Authenticate processes the value of an Authorization header.
func (a *Auth) Authenticate(bearer string) (Claims, error) {
	parts := strings.Split(bearer, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return Claims{}, ErrMissingToken
	}

	return a.ValidateToken(parts[1])
}
