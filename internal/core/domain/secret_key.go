package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SecretKeyLength is the length of the hex-encoded restaurant key.
const SecretKeyLength = 32

// NewSecretKey returns a fresh opaque key for external integrations.
func NewSecretKey() (string, error) {
	b := make([]byte, SecretKeyLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
