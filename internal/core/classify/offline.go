package classify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// offlinePackagesPath yields the expected VS offline-packages directory.
// Computed at most once per process; a var so tests can inject a path.
var offlinePackagesPath = sync.OnceValue(computeOfflinePackagesPath)

// computeOfflinePackagesPath derives the offline-packages directory from the
// host's program-files environment. An empty result means the environment
// lookup failed and the offline check is disabled for this process.
func computeOfflinePackagesPath() string {
	root := os.Getenv("ProgramFiles(x86)")
	if root == "" {
		root = os.Getenv("ProgramFiles")
	}
	if root == "" {
		return ""
	}
	return filepath.Join(root, "Microsoft SDKs", "NuGetPackages")
}

// matchesOfflinePackages reports whether a local source location is the
// expected offline-packages directory.
func matchesOfflinePackages(location string) bool {
	return pathsEqualFold(location, offlinePackagesPath())
}

// pathsEqualFold compares two paths with trailing separators stripped, using
// an ordinal case-insensitive comparison. An empty expected path never
// matches.
func pathsEqualFold(location, expected string) bool {
	if expected == "" {
		return false
	}
	return strings.EqualFold(trimTrailingSeparators(location), trimTrailingSeparators(expected))
}

func trimTrailingSeparators(path string) string {
	return strings.TrimRight(path, `\/`)
}
