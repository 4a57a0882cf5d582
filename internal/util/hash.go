package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the hex-encoded sha256 digest of content. Document
// blobs are keyed by this value, so identical uploads share storage.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
