package links

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

const htmlSpecials = `&<>"`

// Escape replaces &, <, > and " with their entity forms. It is not
// idempotent: escaping escaped text escapes the ampersands again, so callers
// must escape each literal exactly once.
func Escape(text string) string {
	if !strings.ContainsAny(text, htmlSpecials) {
		return text
	}
	return string(util.EscapeHTML([]byte(text)))
}

// Escaped returns Escape(text) as TrustedHTML.
func Escaped(text string) TrustedHTML {
	return TrustedHTML{value: Escape(text)}
}
