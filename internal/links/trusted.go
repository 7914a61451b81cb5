package links

import "html/template"

// TrustedHTML is markup produced by this package: every character outside
// the anchors it generated has been escaped. Values can only be built by
// Escaped, Renderer and Sanitizer, so holding one answers "was this escaped?".
type TrustedHTML struct {
	value string
}

// String returns the raw markup.
func (h TrustedHTML) String() string { return h.value }

// HTML exposes the markup to html/template without re-escaping.
func (h TrustedHTML) HTML() template.HTML { return template.HTML(h.value) }

// IsEmpty reports whether the markup is the empty string.
func (h TrustedHTML) IsEmpty() bool { return h.value == "" }
