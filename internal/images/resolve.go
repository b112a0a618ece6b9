package images

import (
	"log"
	"net/url"
	"strings"
)

// ResolveBase picks the base location candidates are resolved against: the
// draft's own page link when absolute, else the job's origin URL when
// absolute, else "" (relative candidates are then unresolvable).
func ResolveBase(pageLink, originURL string) string {
	if isAbsoluteHTTP(pageLink) {
		return pageLink
	}
	if isAbsoluteHTTP(originURL) {
		return originURL
	}
	return ""
}

// ResolveCandidates turns raw candidate strings into absolute URLs,
// preserving order. Empty, unresolvable, and malformed candidates are dropped
// with a log line; dropping never fails the record.
func ResolveCandidates(candidates []string, base string) []string {
	var baseURL *url.URL
	if base != "" {
		parsed, err := url.Parse(base)
		if err == nil {
			baseURL = parsed
		}
	}

	resolved := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}

		if isAbsoluteHTTP(candidate) {
			resolved = append(resolved, candidate)
			continue
		}

		if baseURL == nil {
			log.Printf("Warning: dropping image candidate %q: no absolute base to resolve against", candidate)
			continue
		}

		ref, err := url.Parse(candidate)
		if err != nil {
			log.Printf("Warning: dropping malformed image candidate %q: %v", candidate, err)
			continue
		}

		abs := baseURL.ResolveReference(ref)
		if !isAbsoluteHTTP(abs.String()) {
			log.Printf("Warning: dropping image candidate %q: resolved to non-http location %q", candidate, abs.String())
			continue
		}
		resolved = append(resolved, abs.String())
	}

	return resolved
}

func isAbsoluteHTTP(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
