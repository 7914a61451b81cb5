package links

import "strings"

var (
	blockedSchemes = []string{"javascript:", "data:", "vbscript:"}
	linkPrefixes   = []string{"http://", "https://", "file://"}
)

// IsSchemeSafe reports whether candidate may be placed in an href once
// normalized. Script-capable schemes are rejected, http(s), file and
// protocol-relative URLs are accepted, strings without "://" are treated as
// bare hosts, and any other scheme is rejected.
func IsSchemeSafe(candidate string) bool {
	lower := strings.ToLower(strings.TrimSpace(candidate))
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	if hasLinkPrefix(lower) || strings.HasPrefix(lower, "//") {
		return true
	}
	return !strings.Contains(lower, "://")
}

// NormalizeHref turns a scheme-safe URL into a fully qualified href.
// Protocol-relative URLs get https:, bare hosts and paths get http://.
func NormalizeHref(rawURL string) string {
	href := strings.TrimSpace(rawURL)
	lower := strings.ToLower(href)
	switch {
	case hasLinkPrefix(lower):
		return href
	case strings.HasPrefix(lower, "//"):
		return "https:" + href
	default:
		return "http://" + href
	}
}

// HrefFor classifies and normalizes rawURL in one step. ok is false when the
// scheme is unsafe.
func HrefFor(rawURL string) (href string, ok bool) {
	if !IsSchemeSafe(rawURL) {
		return "", false
	}
	return NormalizeHref(rawURL), true
}

// IsFileURL reports whether rawURL uses the file scheme.
func IsFileURL(rawURL string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(rawURL)), "file://")
}

func hasLinkPrefix(lower string) bool {
	for _, prefix := range linkPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
