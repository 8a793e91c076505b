package gotrue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wizix/pickem-pool/internal/usecase"
)

const testSecret = "super-secret-signing-key"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims() *accessTokenClaims {
	return &accessTokenClaims{
		Email: "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestVerifier_AcceptsValidToken(t *testing.T) {
	t.Parallel()

	verifier, err := NewVerifier(testSecret, "authenticated")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	principal, err := verifier.VerifyAccessToken(context.Background(), signToken(t, testSecret, validClaims()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != "user-1" || principal.Email != "a@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestVerifier_RejectsBadTokens(t *testing.T) {
	t.Parallel()

	verifier, err := NewVerifier(testSecret, "authenticated")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noSubject := validClaims()
	noSubject.Subject = ""

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	cases := map[string]string{
		"empty token":    "",
		"garbage":        "not.a.jwt",
		"wrong secret":   signToken(t, "other-secret", validClaims()),
		"expired":        signToken(t, testSecret, expired),
		"no subject":     signToken(t, testSecret, noSubject),
		"wrong audience": signToken(t, testSecret, wrongAudience),
	}
	for name, token := range cases {
		if _, err := verifier.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestVerifier_RejectsUnsignedAlgorithm(t *testing.T) {
	t.Parallel()

	verifier, err := NewVerifier(testSecret, "")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for alg=none, got %v", err)
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier("  ", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
