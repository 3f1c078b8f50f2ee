package tools

import (
	"path/filepath"
	"strings"

	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
)

// ResolveArchivePath turns a tool argument into a filesystem path. Relative
// paths are joined to root; when root is set, paths outside it are rejected.
// Examples (root=/data/fmus):
//   - BouncingBall.fmu → /data/fmus/BouncingBall.fmu
//   - /data/fmus/sub/x.fmu → /data/fmus/sub/x.fmu
//   - ../secret.fmu → error
func ResolveArchivePath(path, root string) (string, error) {
	if path == "" {
		return "", fmierrors.ValidationError("path is required")
	}
	if root == "" {
		return filepath.Clean(path), nil
	}

	cleanRoot := filepath.Clean(root)
	resolved := filepath.Clean(path)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(cleanRoot, resolved)
	}

	rel, err := filepath.Rel(cleanRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmierrors.ValidationErrorf("path %s is outside the served directory %s", path, cleanRoot).
			WithContext("root", cleanRoot)
	}
	return resolved, nil
}
