// Package classify turns package-source descriptors into the categorical
// counts and flags reported by restore and search telemetry. Everything here
// is a pure function of its input; malformed locations and missing
// environment data degrade to "no match" instead of errors.
package classify

import (
	"strings"

	"github.com/feedlens/feedlens/internal/core"
)

const (
	serviceIndexSuffix     = "index.json"
	currentProtocolVersion = 3
)

// IsServiceIndex reports whether an HTTP source speaks the v3 feed protocol,
// identified by a service-index endpoint or an explicit protocol version.
// Non-HTTP sources are never protocol-classified.
func IsServiceIndex(src core.SourceDescriptor) bool {
	if !src.IsHTTP {
		return false
	}
	if hasSuffixFold(src.Location, serviceIndexSuffix) {
		return true
	}
	return src.ProtocolVersion != nil && *src.ProtocolVersion == currentProtocolVersion
}

// hasSuffixFold is an ordinal case-insensitive strings.HasSuffix.
func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// containsFold is an ordinal case-insensitive strings.Contains.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
