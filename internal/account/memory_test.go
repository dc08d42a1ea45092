package account

import (
	"context"
	"testing"
)

func TestMemStoreFindByRefreshToken(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.Save(ctx, &Account{Username: "alice", RefreshTokens: []string{"t1"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, &Account{Username: "bob", RefreshTokens: []string{"t2"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	acc, err := store.FindByRefreshToken(ctx, "t2")
	if err != nil {
		t.Fatalf("FindByRefreshToken: %v", err)
	}
	if acc.Username != "bob" {
		t.Fatalf("token resolved to wrong owner: %s", acc.Username)
	}

	if _, err := store.FindByRefreshToken(ctx, "unknown"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStoreIsolatesRecords(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.Save(ctx, &Account{Username: "alice", RefreshTokens: []string{"t1"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	acc, err := store.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	acc.AddRefreshToken("t2")

	again, err := store.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if again.HasRefreshToken("t2") {
		t.Fatal("mutating a fetched record must not leak into the store")
	}
}

func TestMemStoreRemove(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if err := store.Save(ctx, &Account{Username: "alice"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Remove(ctx, "alice"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.FindByUsername(ctx, "alice"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Remove(ctx, "alice"); err != nil {
		t.Fatalf("second Remove must be a no-op, got %v", err)
	}
}
