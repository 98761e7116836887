package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestExpiresAtReadsClaimWithoutVerification(t *testing.T) {
	expiry := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	token := mintToken(t, jwt.MapClaims{"exp": expiry.Unix()})

	got, err := ExpiresAt(token)
	if err != nil {
		t.Fatalf("expires at: %v", err)
	}
	if got == nil || !got.Equal(expiry) {
		t.Fatalf("unexpected expiry %v", got)
	}
}

func TestExpiresAtWithoutClaimReturnsNil(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{"sub": "affiliate-1"})

	got, err := ExpiresAt(token)
	if err != nil {
		t.Fatalf("expires at: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil expiry, got %v", got)
	}
}

func TestExpiresSoon(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	soon := mintToken(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()})
	later := mintToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})

	if !ExpiresSoon(soon, 5*time.Minute, now) {
		t.Fatal("token expiring in a minute should count as soon")
	}
	if ExpiresSoon(later, 5*time.Minute, now) {
		t.Fatal("token expiring in an hour should not count as soon")
	}
	if !ExpiresSoon("not-a-jwt", 5*time.Minute, now) {
		t.Fatal("unparseable tokens should refresh conservatively")
	}
}

func TestCredentialInvalidation(t *testing.T) {
	cred := NewCredential("token-123")
	if cred.Token() != "token-123" {
		t.Fatalf("unexpected token %q", cred.Token())
	}
	if cred.Invalidated() {
		t.Fatal("fresh credential should be valid")
	}

	cred.Invalidate()
	if !cred.Invalidated() {
		t.Fatal("credential should be invalidated")
	}
	if cred.Token() != "" {
		t.Fatal("invalidated credential must not leak the token")
	}
}
