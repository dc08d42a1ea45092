package account

import "context"

// Store is the durable mapping from username to account record. The domain
// depends only on this contract; a concrete backend is picked at process
// startup. Lookups return ErrNotFound when no record matches; any other
// error is an infrastructure failure.
//
// The store is shared mutable state. The domain performs no in-process
// locking and relies on the backend to serialize concurrent writes to the
// same key (last write wins).
type Store interface {
	// FindByUsername returns the account keyed by username.
	FindByUsername(ctx context.Context, username string) (*Account, error)
	// FindByRefreshToken returns the account whose refresh-token set
	// contains token.
	FindByRefreshToken(ctx context.Context, token string) (*Account, error)
	// Save upserts the full account record.
	Save(ctx context.Context, acc *Account) error
	// Remove deletes the record. Removing an absent account is not an
	// error.
	Remove(ctx context.Context, username string) error
}
