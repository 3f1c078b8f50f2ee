// Package platform derives the execution platforms an FMU ships binaries for.
package platform

import (
	"sort"
	"strings"
)

// BinariesPrefix is the archive directory holding per-platform binaries.
const BinariesPrefix = "binaries/"

// Detect returns the sorted, de-duplicated platform identifiers found as the
// first path segment under BinariesPrefix. Files placed directly in the
// binaries directory do not name a platform. The result is never nil.
func Detect(entries []string) []string {
	seen := make(map[string]struct{})
	for _, name := range entries {
		rest, ok := strings.CutPrefix(name, BinariesPrefix)
		if !ok {
			continue
		}
		id, _, isDir := strings.Cut(rest, "/")
		if !isDir || id == "" {
			continue
		}
		seen[id] = struct{}{}
	}

	platforms := make([]string, 0, len(seen))
	for id := range seen {
		platforms = append(platforms, id)
	}
	sort.Strings(platforms)
	return platforms
}
