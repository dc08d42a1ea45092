package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultIssuer = "vigil"

// Token use markers embedded in the token_use claim so an access token can
// never be replayed as a refresh token or vice versa.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// ErrInvalidToken indicates a token failed structural validation: bad
// signature, wrong algorithm or issuer, expired, or malformed.
var ErrInvalidToken = errors.New("account: invalid token")

// Claims carried by both token kinds. Access tokens embed the role set;
// refresh tokens carry only the subject.
type Claims struct {
	Roles    []string `json:"roles,omitempty"`
	TokenUse string   `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the self-contained tokens issued by the
// domain. Codec is the production implementation.
type TokenCodec interface {
	SignAccess(username string, roles []string, ttl time.Duration) (string, error)
	SignRefresh(username string, ttl time.Duration) (string, error)
	Verify(token string) (*Claims, error)
}

// Codec signs and verifies HS256 JWTs with a process-lifetime secret. The
// secret is injected at construction; business logic never reads the
// environment.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// CodecOption configures Codec behavior.
type CodecOption func(*Codec)

// WithCodecIssuer overrides the issuer claim.
func WithCodecIssuer(issuer string) CodecOption {
	return func(c *Codec) {
		if issuer = strings.TrimSpace(issuer); issuer != "" {
			c.issuer = issuer
		}
	}
}

// WithCodecClock overrides the time source (useful for tests).
func WithCodecClock(fn func() time.Time) CodecOption {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewCodec constructs a Codec. The secret must be non-empty.
func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("account: signing secret is required")
	}
	c := &Codec{
		secret: secret,
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SignAccess issues a short-lived access token embedding the username and
// role set. Access tokens are stateless and never persisted.
func (c *Codec) SignAccess(username string, roles []string, ttl time.Duration) (string, error) {
	return c.sign(username, roles, TokenUseAccess, ttl)
}

// SignRefresh issues a longer-lived refresh token carrying only the subject.
func (c *Codec) SignRefresh(username string, ttl time.Duration) (string, error) {
	return c.sign(username, nil, TokenUseRefresh, ttl)
}

func (c *Codec) sign(username string, roles []string, use string, ttl time.Duration) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", errors.New("account: username is required")
	}
	if ttl <= 0 {
		return "", errors.New("account: ttl must be greater than zero")
	}
	now := c.now().UTC()
	claims := Claims{
		Roles:    roles,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry, and returns the
// decoded claims. Every failure collapses to ErrInvalidToken.
func (c *Codec) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithIssuer(c.issuer), jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
