package account

import "testing"

func TestRefreshTokenSetSemantics(t *testing.T) {
	acc := &Account{Username: "alice"}

	acc.AddRefreshToken("t1")
	acc.AddRefreshToken("t2")
	acc.AddRefreshToken("t1") // duplicate is a no-op
	if len(acc.RefreshTokens) != 2 {
		t.Fatalf("expected 2 tokens, got %v", acc.RefreshTokens)
	}
	if !acc.HasRefreshToken("t1") || !acc.HasRefreshToken("t2") {
		t.Fatalf("membership check failed: %v", acc.RefreshTokens)
	}

	acc.RemoveRefreshToken("t1")
	if acc.HasRefreshToken("t1") {
		t.Fatal("t1 should have been removed")
	}
	if !acc.HasRefreshToken("t2") {
		t.Fatal("t2 must survive removal of t1")
	}

	acc.RemoveRefreshToken("never-issued")
	if len(acc.RefreshTokens) != 1 {
		t.Fatalf("removing an absent token must be a no-op, got %v", acc.RefreshTokens)
	}
}

func TestAccountHasRole(t *testing.T) {
	acc := &Account{Username: "alice", Roles: []string{RoleUser}}
	if !acc.HasRole(RoleUser) {
		t.Fatal("expected USER role")
	}
	if acc.HasRole(RoleAdmin) {
		t.Fatal("unexpected ADMIN role")
	}
}

func TestAccountCloneIsDeep(t *testing.T) {
	acc := &Account{
		Username:      "alice",
		Roles:         []string{RoleUser},
		RefreshTokens: []string{"t1"},
	}
	cp := acc.Clone()
	cp.Roles[0] = RoleAdmin
	cp.AddRefreshToken("t2")

	if acc.Roles[0] != RoleUser {
		t.Fatal("clone shares roles slice with original")
	}
	if acc.HasRefreshToken("t2") {
		t.Fatal("clone shares refresh tokens with original")
	}
}
