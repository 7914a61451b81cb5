package links

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer is the host trust boundary: it only lets through the anchor
// markup this package generates and strips every other element.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer allowing <a href target rel> with
// http, https and file URLs.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.NewPolicy()
	policy.RequireParseableURLs(true)
	policy.AllowURLSchemes("http", "https", "file")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	policy.AllowAttrs("rel").Matching(regexp.MustCompile(`^noopener noreferrer$`)).OnElements("a")
	return &Sanitizer{policy: policy}
}

// Sanitize filters markup through the policy.
func (s *Sanitizer) Sanitize(markup string) TrustedHTML {
	return TrustedHTML{value: s.policy.Sanitize(markup)}
}
