package model

import (
	"crypto/rand"
	"encoding/base64"
)

// SecureToken creates an opaque refresh-token value from 64 bytes of
// cryptographically secure random data.
func SecureToken() string {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has no usable entropy source.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
