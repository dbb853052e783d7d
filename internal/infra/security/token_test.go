package security

import (
	"testing"
	"time"
)

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	fixed := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	issuer, err := NewTokenIssuer("test-secret", "registration-service", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	issuer.WithClock(func() time.Time { return fixed })

	signed, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Issuer != "registration-service" {
		t.Fatalf("expected issuer registration-service, got %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be populated")
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", fixed.Add(time.Hour), claims.ExpiresAt.Time)
	}
}

func TestTokenIssuer_TokensAreUnique(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "registration-service", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	first, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	second, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct tokens for repeated issuance")
	}
}

func TestTokenIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("  ", "registration-service", time.Hour); err != ErrSecretMissing {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
}

func TestTokenIssuer_ParseRejectsExpired(t *testing.T) {
	issued := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	issuer, err := NewTokenIssuer("test-secret", "registration-service", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	issuer.WithClock(func() time.Time { return issued })

	signed, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	issuer.WithClock(func() time.Time { return issued.Add(time.Hour) })
	if _, err := issuer.Parse(signed); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}
