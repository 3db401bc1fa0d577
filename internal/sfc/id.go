package sfc

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// ComputeID derives the stable component id from the document path relative
// to root. In production the source is mixed in so ids change with content.
func ComputeID(filename, root, source string, production bool) string {
	normalized := filename
	if root != "" {
		if rel, err := filepath.Rel(root, filename); err == nil {
			normalized = rel
		}
	}
	normalized = filepath.ToSlash(normalized)
	if production {
		normalized += source
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:8]
}
