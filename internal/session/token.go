package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// GenerateToken generates a cryptographically secure session token.
// 32 bytes = 256 bits of entropy.
func GenerateToken() (string, error) {
	const size = 32 // 256 bits

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Signer produces and checks the signed cookie form of a session token.
// The cookie carries "<token>.<signature>" so a forged or tampered value
// is rejected before the store is consulted.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Sign returns the cookie value for a token.
func (s *Signer) Sign(token string) string {
	return token + "." + s.sign(token)
}

// Verify extracts the token from a cookie value, rejecting values whose
// signature does not match.
func (s *Signer) Verify(cookieValue string) (string, bool) {
	token, sig, found := strings.Cut(cookieValue, ".")
	if !found || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(token))) {
		return "", false
	}
	return token, true
}
