package utils

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// opaqueTokenBytes is the entropy of session and reset tokens. 32 bytes
// (256 bits) keeps tokens unguessable even against offline enumeration.
const opaqueTokenBytes = 32

// NewOpaqueToken returns a high-entropy identifier suitable for session and
// password-reset tokens. The value is read from the OS CSPRNG and encoded as
// unpadded base64url; it carries no client-inspectable claims.
//
// Returns an error only if the random source fails, which is treated as an
// infrastructure fault by callers.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("error reading random bytes for token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewOTPSecret returns a fresh 160-bit secret for time-windowed one-time
// codes, encoded as unpadded base32 per the usual authenticator-app format.
func NewOTPSecret() (string, error) {
	buf := make([]byte, 20)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("error reading random bytes for OTP secret: %w", err)
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// ParseBearerToken extracts the token value from an "Authorization" header
// of the form "Bearer <token>". Returns an error when the header does not
// contain exactly a scheme and a non-empty token.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
