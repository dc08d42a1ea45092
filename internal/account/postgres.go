package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. Role and refresh-token sets
// are stored as jsonb; refresh-token lookup uses jsonb containment instead
// of a secondary index.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) FindByUsername(ctx context.Context, username string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select username, password_hash, roles, blocked, refresh_tokens from accounts where username=$1`,
		username,
	)
	return scanAccount(row)
}

func (s *PGStore) FindByRefreshToken(ctx context.Context, token string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select username, password_hash, roles, blocked, refresh_tokens from accounts
		 where refresh_tokens @> to_jsonb($1::text)`,
		token,
	)
	return scanAccount(row)
}

func (s *PGStore) Save(ctx context.Context, acc *Account) error {
	roles, err := json.Marshal(acc.Roles)
	if err != nil {
		return fmt.Errorf("marshal roles: %w", err)
	}
	tokens, err := json.Marshal(acc.RefreshTokens)
	if err != nil {
		return fmt.Errorf("marshal refresh tokens: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`insert into accounts(username, password_hash, roles, blocked, refresh_tokens)
		 values($1,$2,$3,$4,$5)
		 on conflict (username) do update set
		   password_hash=excluded.password_hash,
		   roles=excluded.roles,
		   blocked=excluded.blocked,
		   refresh_tokens=excluded.refresh_tokens,
		   updated_at=now()`,
		acc.Username, acc.PasswordHash, roles, acc.Blocked, tokens,
	)
	return err
}

func (s *PGStore) Remove(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `delete from accounts where username=$1`, username)
	return err
}

func scanAccount(row *sql.Row) (*Account, error) {
	var (
		acc    Account
		roles  []byte
		tokens []byte
	)
	if err := row.Scan(&acc.Username, &acc.PasswordHash, &roles, &acc.Blocked, &tokens); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(roles, &acc.Roles); err != nil {
		return nil, fmt.Errorf("unmarshal roles: %w", err)
	}
	if err := json.Unmarshal(tokens, &acc.RefreshTokens); err != nil {
		return nil, fmt.Errorf("unmarshal refresh tokens: %w", err)
	}
	return &acc, nil
}
