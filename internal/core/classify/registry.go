package classify

import (
	"strings"

	"github.com/feedlens/feedlens/internal/core"
)

const nugetOrgDomain = "nuget.org"

// IsNuGetOrgSubdomain reports whether the source host is a subdomain of
// nuget.org. The bare root domain deliberately does not match: this is the
// restore-side rule, kept distinct from the search-side one below.
// An unparsable location never matches.
func IsNuGetOrgSubdomain(src core.SourceDescriptor) bool {
	if !src.IsHTTP || src.Parsed == nil {
		return false
	}
	return hasSuffixFold(src.Parsed.Hostname(), "."+nugetOrgDomain)
}

// IsNuGetOrgDomainOrSubdomain reports whether the source host is nuget.org
// itself or any subdomain of it. This is the search-side rule.
func IsNuGetOrgDomainOrSubdomain(src core.SourceDescriptor) bool {
	if !src.IsHTTP || src.Parsed == nil {
		return false
	}

	host := src.Parsed.Hostname()
	if host == "" {
		return false
	}

	return strings.EqualFold(host, nugetOrgDomain) || hasSuffixFold(host, "."+nugetOrgDomain)
}
