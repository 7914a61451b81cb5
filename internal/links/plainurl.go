package links

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxURLLength caps the characters after the scheme (or "www.") of a
// URL token. Longer tokens are left as text.
const DefaultMaxURLLength = 2000

const sentencePunctuation = ".,;!?"

var plainURLPattern = regexp.MustCompile(`(?i)(?:(?:https?|file)://|www\.)\S+`)

// URLMatch is a bare URL found in a string. Start and End are byte offsets
// of URL within the scanned text, after trailing punctuation was trimmed.
type URLMatch struct {
	Start, End int
	URL        string
	Href       string
	Safe       bool
}

// FindURLs returns the bare http(s)://, file:// and www. URLs in text using
// the default length guard.
func FindURLs(text string) []URLMatch {
	return findURLs(text, DefaultMaxURLLength)
}

func findURLs(text string, maxLength int) []URLMatch {
	if !hasLinkHint(text) {
		return nil
	}

	var found []URLMatch
	for _, m := range plainURLPattern.FindAllStringIndex(text, -1) {
		token := text[m[0]:m[1]]
		prefix := urlPrefixLength(token)
		if utf8.RuneCountInString(token[prefix:]) > maxLength {
			continue
		}

		candidate := strings.TrimRight(token, sentencePunctuation)
		if len(candidate) <= prefix {
			continue
		}

		match := URLMatch{
			Start: m[0],
			End:   m[0] + len(candidate),
			URL:   candidate,
		}
		if href, ok := HrefFor(candidate); ok {
			match.Href = href
			match.Safe = true
		}
		found = append(found, match)
	}
	return found
}

// renderLiteral escapes text and wraps the safe URLs it contains in anchors.
func (r *Renderer) renderLiteral(b *strings.Builder, text string) int {
	matches := findURLs(text, r.maxURLLength)

	last := 0
	for _, m := range matches {
		b.WriteString(Escape(text[last:m.Start]))
		if m.Safe {
			writeAnchor(b, m.Href, m.URL)
		} else {
			r.logger.Debug("links.render.unsafe_link_dropped", "source", "plain")
			b.WriteString(Escape(m.URL))
		}
		last = m.End
	}
	b.WriteString(Escape(text[last:]))
	return len(matches)
}

func urlPrefixLength(token string) int {
	lower := strings.ToLower(token[:min(len(token), 8)])
	switch {
	case strings.HasPrefix(lower, "https://"):
		return len("https://")
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "file://"):
		return len("http://")
	default:
		return len("www.")
	}
}

// hasLinkHint is the cheap pre-check run before any regular expression.
func hasLinkHint(text string) bool {
	return strings.Contains(text, "://") || strings.Contains(text, "](") || containsWWW(text)
}

func containsWWW(text string) bool {
	for i := 0; i+4 <= len(text); i++ {
		if text[i]|0x20 == 'w' && text[i+1]|0x20 == 'w' && text[i+2]|0x20 == 'w' && text[i+3] == '.' {
			return true
		}
	}
	return false
}
