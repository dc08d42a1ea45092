// Package authz classifies inbound access tokens and checks role
// membership. The gate holds no persisted state: the outcome is a pure
// function of the token string and the signing secret.
package authz

import (
	"errors"
	"strings"

	"vigil.org/internal/account"
)

var (
	// ErrUnauthenticated covers every token failure: missing, malformed,
	// bad signature, wrong kind, expired.
	ErrUnauthenticated = errors.New("authz: unauthenticated")
	// ErrForbidden indicates a valid identity lacking a required role.
	ErrForbidden = errors.New("authz: forbidden")
)

const bearerPrefix = "Bearer "

// Identity is the decoded subject of a valid access token.
type Identity struct {
	Username string
	Roles    []string
}

// HasRole reports whether the identity carries the given role tag.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Verifier is the token-codec capability the gate needs.
type Verifier interface {
	Verify(token string) (*account.Claims, error)
}

// Gate validates access tokens against the process signing secret.
type Gate struct {
	codec Verifier
}

func NewGate(codec Verifier) (*Gate, error) {
	if codec == nil {
		return nil, errors.New("authz: verifier is required")
	}
	return &Gate{codec: codec}, nil
}

// ExtractBearer pulls the token out of an Authorization header. Anything
// that is not a well-formed "Bearer <token>" value fails.
func ExtractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrUnauthenticated
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrUnauthenticated
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}

// Authenticate verifies an access token and returns the embedded identity.
// Refresh tokens are rejected here even though they carry the same
// signature: only access tokens prove identity for a request window.
func (g *Gate) Authenticate(token string) (Identity, error) {
	claims, err := g.codec.Verify(token)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}
	if claims.TokenUse != account.TokenUseAccess {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{Username: claims.Subject, Roles: claims.Roles}, nil
}

// RequireRole succeeds when the identity holds at least one of the required
// roles.
func RequireRole(id Identity, roles ...string) error {
	for _, role := range roles {
		if id.HasRole(role) {
			return nil
		}
	}
	return ErrForbidden
}
