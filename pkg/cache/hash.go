package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// SharedNamespace is the directory used when no namespace is given.
	SharedNamespace = "shared"

	namespaceHashLen = 16
	keyHashLen       = 32
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// NamespaceDir returns the directory name for a namespace: the shared
// sentinel for "", otherwise the first 16 hex characters of its SHA-256.
// Hashing keeps user-controlled values out of the filesystem.
func NamespaceDir(namespace string) string {
	if namespace == "" {
		return SharedNamespace
	}
	return Hash([]byte(namespace))[:namespaceHashLen]
}

// URLKey returns the filename stem for a URL: the first 32 hex characters of
// its SHA-256.
func URLKey(url string) string {
	return Hash([]byte(url))[:keyHashLen]
}
