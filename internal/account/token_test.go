package account

import (
	"strings"
	"testing"
	"time"
)

func TestCodecSignAndVerify(t *testing.T) {
	codec, err := NewCodec([]byte("test-secret"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := codec.SignAccess("alice", []string{RoleUser, RoleAdmin}, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.TokenUse != TokenUseAccess {
		t.Fatalf("unexpected token use: %s", claims.TokenUse)
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("roles were not preserved: %v", claims.Roles)
	}
}

func TestCodecRefreshTokenCarriesNoRoles(t *testing.T) {
	codec, err := NewCodec([]byte("test-secret"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := codec.SignRefresh("alice", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}
	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.TokenUse != TokenUseRefresh {
		t.Fatalf("unexpected token use: %s", claims.TokenUse)
	}
	if len(claims.Roles) != 0 {
		t.Fatalf("refresh token must not embed roles, got %v", claims.Roles)
	}
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	signer, err := NewCodec([]byte("secret-a"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	verifier, err := NewCodec([]byte("secret-b"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := signer.SignAccess("alice", []string{RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodecRejectsExpiredToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewCodec([]byte("test-secret"), WithCodecClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := codec.SignAccess("alice", []string{RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := codec.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestCodecRejectsTamperedToken(t *testing.T) {
	codec, err := NewCodec([]byte("test-secret"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	token, err := codec.SignAccess("alice", []string{RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := codec.Verify(tampered); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := codec.Verify(""); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
	if _, err := codec.Verify("not-a-jwt"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec(nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestCodecRejectsZeroTTL(t *testing.T) {
	codec, err := NewCodec([]byte("test-secret"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if _, err := codec.SignAccess("alice", []string{RoleUser}, 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
	if _, err := codec.SignRefresh("", time.Minute); err == nil {
		t.Fatal("expected error for empty username")
	}
}
