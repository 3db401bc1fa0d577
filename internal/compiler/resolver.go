package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FSResolver resolves relative and root-absolute src references to files on
// disk. Bare module specifiers are left to the bundler.
type FSResolver struct {
	// Root anchors references starting with "/"; when empty they are
	// treated as absolute paths
	Root string
}

// Resolve returns the slash-separated path of ref when the file exists
func (r FSResolver) Resolve(ctx context.Context, ref, importer string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var candidate string
	switch {
	case strings.HasPrefix(ref, "./"), strings.HasPrefix(ref, "../"):
		candidate = filepath.Join(filepath.Dir(importer), filepath.FromSlash(ref))
	case strings.HasPrefix(ref, "/"):
		candidate = filepath.FromSlash(ref)
		if r.Root != "" {
			candidate = filepath.Join(r.Root, candidate)
		}
	default:
		return "", false, nil
	}

	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", false, nil
	}
	return filepath.ToSlash(candidate), true, nil
}
