package auth

import (
	"strings"
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.Contains(hashed, ":") {
		t.Fatalf("stored hash missing salt separator: %q", hashed)
	}
	if !VerifyPassword("password123", hashed) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword("password124", hashed) {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	b, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password should use different salts")
	}
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	for _, stored := range []string{"", "nosalt", "zz:zz", ":", "abcd:"} {
		if VerifyPassword("password123", stored) {
			t.Fatalf("malformed stored hash %q accepted", stored)
		}
	}
}

func TestJWTRoundTrip(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	token, expiresAt, err := j.Sign(Claims{UserID: "user-rep", Role: "REP"})
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiresAt in the past: %v", expiresAt)
	}
	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-rep" || claims.Role != "REP" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Issuer != "forecastcrm" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestJWTVerifyRejectsWrongSecret(t *testing.T) {
	signer := JWT{Secret: []byte("secret-a"), TokenTTL: time.Hour}
	token, _, err := signer.Sign(Claims{UserID: "user-rep", Role: "REP"})
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}
	verifier := JWT{Secret: []byte("secret-b"), TokenTTL: time.Hour}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("token signed with another secret verified")
	}
}

func TestJWTVerifyRejectsGarbage(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	if _, err := j.Verify("not.a.token"); err == nil {
		t.Fatal("garbage token verified")
	}
}
