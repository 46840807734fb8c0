package utils

import (
	"crypto/sha256"
	"fmt"
)

// HashStrings returns a stable hex digest for a set of cache-key components.
func HashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
