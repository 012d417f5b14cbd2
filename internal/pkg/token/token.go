// Package token generates the opaque credentials used for confirmation
// links and one-click unsubscribe. Tokens are raw entropy, hex-encoded;
// they carry no structure and are never derived from user data.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultBytes is the entropy used for confirmation and unsubscribe
// tokens: 32 bytes = 256 bits = 64 hex characters.
const DefaultBytes = 32

// Generate returns a cryptographically random hex token of n bytes.
// n <= 0 falls back to DefaultBytes.
func Generate(n int) (string, error) {
	if n <= 0 {
		n = DefaultBytes
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// MustGenerate is Generate with a panic on failure. crypto/rand only
// fails when the OS entropy source is broken, at which point the
// process has no business issuing credentials anyway.
func MustGenerate() string {
	t, err := Generate(DefaultBytes)
	if err != nil {
		panic(err)
	}
	return t
}
