// Package token generates opaque, unguessable identifiers for appointment
// view and cancellation links.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

const tokenBytes = 24

// New returns a URL-safe random token. Collisions are prevented by unique
// indexes at the storage layer.
func New() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
