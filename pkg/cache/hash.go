package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DiagramKeyOpts identifies one rendering of one roadmap.
type DiagramKeyOpts struct {
	// ContentHash is the hash of the roadmap's node tree.
	ContentHash string `json:"content"`
	// Expanded is the canonical (sorted, comma-joined) expanded set.
	Expanded string `json:"expanded"`
	Format   string `json:"format"`
	Theme    string `json:"theme,omitempty"`
	// Layout holds the layout options, marshalled as-is.
	Layout any `json:"layout,omitempty"`
}

// DiagramKey returns the cache key for a rendered diagram.
func DiagramKey(opts DiagramKeyOpts) string {
	return hashKey("diagram", opts)
}

// LayoutKey returns the cache key for a computed layout result.
func LayoutKey(contentHash, expanded string, layoutOpts any) string {
	return hashKey("layout", contentHash, expanded, layoutOpts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashJSON hashes the JSON encoding of v.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
