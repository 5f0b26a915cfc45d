package auth

import (
	"testing"
	"time"
)

func TestSignParseRoundtrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Sign("u-1", "org-1", "owner")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "u-1" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
	if claims.OrgID != "org-1" {
		t.Fatalf("orgId mismatch: %s", claims.OrgID)
	}
	if claims.Role != "owner" {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Sign("u-1", "org-1", "owner")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := NewManager("test-secret", -time.Minute).Sign("u-1", "org-1", "owner")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := NewManager("test-secret", -time.Minute).Parse(token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := NewManager("test-secret", time.Hour).Parse("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
