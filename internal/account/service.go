package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	minPasswordLength = 6
)

// Service enforces the account and session lifecycle rules: signup, login,
// logout, refresh-token rotation and administrative state changes. Every
// operation is a short read-modify-write against the Store; concurrent
// writes to the same account are serialized by the backend, last write
// wins.
type Service struct {
	store  Store
	codec  TokenCodec
	hasher Hasher
	now    func() time.Time

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

// WithRefreshTTL configures refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// WithHasher overrides the credential hasher.
func WithHasher(h Hasher) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service over the given store and token codec.
func NewService(store Store, codec TokenCodec, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("account: store is required")
	}
	if codec == nil {
		return nil, errors.New("account: token codec is required")
	}
	s := &Service{
		store:      store,
		codec:      codec,
		hasher:     BcryptHasher{},
		now:        time.Now,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Session is the result of a successful login.
type Session struct {
	Account      *Account
	AccessToken  string
	RefreshToken string
}

// TokenPair is the result of a refresh-token rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Signup registers a new account with role set {USER}. The username must be
// non-empty after trimming and the password at least six characters.
func (s *Service) Signup(ctx context.Context, username, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password is too weak", ErrValidation)
	}

	_, err := s.store.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: account already exists", ErrConflict)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	acc := &Account{
		Username:      username,
		PasswordHash:  hash,
		Roles:         []string{RoleUser},
		Blocked:       false,
		RefreshTokens: []string{},
	}
	if err := s.store.Save(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Login verifies credentials and issues a fresh access/refresh pair. An
// absent account and a blocked account produce the same error so callers
// cannot probe for account existence.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	acc, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials or blocked", ErrAuth)
		}
		return nil, err
	}
	if acc.Blocked {
		return nil, fmt.Errorf("%w: invalid credentials or blocked", ErrAuth)
	}
	if err := s.hasher.Verify(acc.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrAuth)
	}

	access, err := s.codec.SignAccess(acc.Username, acc.Roles, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.SignRefresh(acc.Username, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	acc.AddRefreshToken(refresh)
	if err := s.store.Save(ctx, acc); err != nil {
		return nil, err
	}
	return &Session{Account: acc, AccessToken: access, RefreshToken: refresh}, nil
}

// Logout removes exactly the given refresh token from its owner's set.
// Logging out an unknown or already-invalid token succeeds silently; other
// sessions of the same account stay live.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	acc, err := s.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	acc.RemoveRefreshToken(refreshToken)
	return s.store.Save(ctx, acc)
}

// RefreshAccessToken rotates a refresh token: the presented token is
// consumed and a new access/refresh pair is issued. A token with no owner,
// one missing from its owner's set, or one owned by a blocked account all
// fail identically. A stored token that no longer verifies is pruned and
// reported as an expired session so the caller re-authenticates.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	acc, err := s.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token or account blocked", ErrAuth)
		}
		return nil, err
	}
	if !acc.HasRefreshToken(refreshToken) || acc.Blocked {
		return nil, fmt.Errorf("%w: invalid refresh token or account blocked", ErrAuth)
	}

	if _, err := s.codec.Verify(refreshToken); err != nil {
		acc.RemoveRefreshToken(refreshToken)
		if saveErr := s.store.Save(ctx, acc); saveErr != nil {
			return nil, saveErr
		}
		return nil, fmt.Errorf("%w: log in again", ErrSessionExpired)
	}

	access, err := s.codec.SignAccess(acc.Username, acc.Roles, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.SignRefresh(acc.Username, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	acc.RemoveRefreshToken(refreshToken)
	acc.AddRefreshToken(refresh)
	if err := s.store.Save(ctx, acc); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// BlockUser disables login and refresh for the account. Stored refresh
// tokens are kept; they become unusable while the block holds.
func (s *Service) BlockUser(ctx context.Context, username string) error {
	acc, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: account does not exist", ErrNotFound)
		}
		return err
	}
	if acc.Blocked {
		return fmt.Errorf("%w: already blocked", ErrConflict)
	}
	acc.Blocked = true
	return s.store.Save(ctx, acc)
}

// UnblockUser lifts an administrative block.
func (s *Service) UnblockUser(ctx context.Context, username string) error {
	acc, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: account does not exist", ErrNotFound)
		}
		return err
	}
	if !acc.Blocked {
		return fmt.Errorf("%w: already unblocked", ErrConflict)
	}
	acc.Blocked = false
	return s.store.Save(ctx, acc)
}

// RemoveUser deletes the account record unconditionally. Removal is
// idempotent: deleting an absent account is not an error.
func (s *Service) RemoveUser(ctx context.Context, username string) error {
	return s.store.Remove(ctx, username)
}
