package links

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const anchorAttributes = ` target="_blank" rel="noopener noreferrer"`

// entityPattern matches named, decimal and hex character references.
const entityPattern = `&(?:[a-zA-Z][a-zA-Z0-9]{0,31}|#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6});`

// anchorPattern recognizes anchors shaped like the ones writeAnchor emits:
// an href, optional target/rel with the exact values we generate, and
// attribute/label text that is fully escaped.
var anchorPattern = regexp.MustCompile(
	`<a href="((?:[^"<>&]|` + entityPattern + `)*)"` +
		`(?: target="_blank")?(?: rel="noopener noreferrer")?>` +
		`(?:[^<>"&]|` + entityPattern + `)*?</a>`,
)

// writeAnchor emits an anchor for an already normalized href. Both href and
// label are escaped here, independently.
func writeAnchor(b *strings.Builder, href, label string) {
	b.WriteString(`<a href="`)
	b.WriteString(Escape(href))
	b.WriteString(`"`)
	b.WriteString(anchorAttributes)
	b.WriteString(`>`)
	b.WriteString(Escape(label))
	b.WriteString(`</a>`)
}

// trustedHref reports whether an escaped href taken from markup points at a
// scheme this package would have generated.
func trustedHref(escaped string) bool {
	href := html.UnescapeString(escaped)
	return hasLinkPrefix(strings.ToLower(href)) && IsSchemeSafe(href)
}
