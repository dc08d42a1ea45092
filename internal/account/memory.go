package account

import (
	"context"
	"sync"
)

var _ Store = (*MemStore)(nil)

// MemStore keeps accounts in process memory behind a mutex. It backs local
// development and the service tests; data does not survive a restart.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[string]*Account)}
}

func (s *MemStore) FindByUsername(ctx context.Context, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[username]
	if !ok {
		return nil, ErrNotFound
	}
	return acc.Clone(), nil
}

func (s *MemStore) FindByRefreshToken(ctx context.Context, token string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.HasRefreshToken(token) {
			return acc.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) Save(ctx context.Context, acc *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.Username] = acc.Clone()
	return nil
}

func (s *MemStore) Remove(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, username)
	return nil
}
