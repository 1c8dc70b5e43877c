package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, key *rsa.PrivateKey, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func TestValidateToken(t *testing.T) {
	key := newKey(t)
	verifier := NewVerifier(&key.PublicKey)

	valid := Claims{
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	claims, err := verifier.ValidateToken(signToken(t, key, jwt.SigningMethodRS256, valid))
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Username != "testuser" {
		t.Errorf("Username = %q, want testuser", claims.Username)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	key := newKey(t)
	otherKey := newKey(t)
	verifier := NewVerifier(&key.PublicKey)

	expired := Claims{
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	noUser := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	foreign := Claims{Username: "testuser"}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", signToken(t, key, jwt.SigningMethodRS256, expired), ErrInvalidToken},
		{"wrong key", signToken(t, otherKey, jwt.SigningMethodRS256, foreign), ErrInvalidToken},
		{"wrong algorithm", signToken(t, key, jwt.SigningMethodRS512, foreign), ErrInvalidToken},
		{"garbage", "not-a-token", ErrInvalidToken},
		{"missing username", signToken(t, key, jwt.SigningMethodRS256, noUser), ErrMissingUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.ValidateToken(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadVerifier(t *testing.T) {
	key := newKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}

	path := filepath.Join(t.TempDir(), "jwtRS256.key.pub")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}

	verifier, err := LoadVerifier(path)
	if err != nil {
		t.Fatalf("LoadVerifier() error = %v", err)
	}

	token := signToken(t, key, jwt.SigningMethodRS256, Claims{Username: "alice"})
	if _, err := verifier.ValidateToken(token); err != nil {
		t.Errorf("ValidateToken() error = %v", err)
	}

	if _, err := LoadVerifier(filepath.Join(t.TempDir(), "missing.pub")); err == nil {
		t.Error("LoadVerifier() expected error for missing file")
	}
}
