package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"vigil.org/internal/account"
)

func testGate(t *testing.T) (*Gate, *account.Codec) {
	t.Helper()
	codec, err := account.NewCodec([]byte("test-secret"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	gate, err := NewGate(codec)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	return gate, codec
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"surrounding space", "  Bearer tok  ", "tok", true},
		{"empty", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"lowercase scheme", "bearer abc", "", false},
		{"prefix only", "Bearer ", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractBearer(tc.header)
			if tc.ok {
				if err != nil {
					t.Fatalf("ExtractBearer(%q): %v", tc.header, err)
				}
				if got != tc.want {
					t.Fatalf("got %q, want %q", got, tc.want)
				}
				return
			}
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthenticateAccessToken(t *testing.T) {
	gate, codec := testGate(t)
	token, err := codec.SignAccess("alice", []string{account.RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	id, err := gate.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.Username != "alice" {
		t.Fatalf("username = %q", id.Username)
	}
	if !id.HasRole(account.RoleUser) {
		t.Fatalf("identity missing role: %+v", id)
	}
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	gate, codec := testGate(t)
	token, err := codec.SignRefresh("alice", time.Minute)
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	if _, err := gate.Authenticate(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for refresh token, got %v", err)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	gate, _ := testGate(t)
	if _, err := gate.Authenticate("not-a-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	gate, _ := testGate(t)
	other, err := account.NewCodec([]byte("other-secret"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	token, err := other.SignAccess("alice", []string{account.RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	if _, err := gate.Authenticate(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	admin := Identity{Username: "root", Roles: []string{account.RoleUser, account.RoleAdmin}}
	user := Identity{Username: "alice", Roles: []string{account.RoleUser}}

	if err := RequireRole(admin, account.RoleAdmin); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	if err := RequireRole(user, account.RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// Any one of the listed roles suffices.
	if err := RequireRole(user, account.RoleAdmin, account.RoleUser); err != nil {
		t.Fatalf("any-of match should pass: %v", err)
	}
	if err := RequireRole(Identity{}, account.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Fatalf("empty identity should fail, got %v", err)
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	id := Identity{Username: "alice", Roles: []string{account.RoleUser}}
	ctx := ContextWithIdentity(context.Background(), id)

	got, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("identity not found in context")
	}
	if got.Username != "alice" {
		t.Fatalf("username = %q", got.Username)
	}

	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity in empty context")
	}
}
