package links

import (
	"strings"

	"github.com/goliatone/go-linkify/internal/logging"
	"github.com/goliatone/go-linkify/pkg/interfaces"
)

// Renderer turns free-form text into TrustedHTML where URLs and markdown
// links become anchors and everything else is escaped. A Renderer holds no
// mutable state and is safe for concurrent use.
type Renderer struct {
	linksEnabled bool
	maxURLLength int
	sanitizer    *Sanitizer
	logger       interfaces.Logger
}

// RendererOption configures the renderer instance.
type RendererOption func(*Renderer)

// WithLinksEnabled sets the link mode used by Render.
func WithLinksEnabled(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.linksEnabled = enabled
	}
}

// WithMaxURLLength overrides the URL length guard. Non-positive values keep
// the default.
func WithMaxURLLength(length int) RendererOption {
	return func(r *Renderer) {
		if length > 0 {
			r.maxURLLength = length
		}
	}
}

// WithSanitizer runs link-bearing output through the given host sanitizer.
func WithSanitizer(s *Sanitizer) RendererOption {
	return func(r *Renderer) {
		r.sanitizer = s
	}
}

// WithLogger attaches a logger for debug diagnostics.
func WithLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer constructs a renderer with links enabled and the default length guard.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		linksEnabled: true,
		maxURLLength: DefaultMaxURLLength,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render renders text with the package default renderer.
func Render(text string, linksEnabled bool) TrustedHTML {
	return defaultRenderer.RenderText(text, linksEnabled)
}

// Render renders text using the renderer's configured link mode.
func (r *Renderer) Render(text string) TrustedHTML {
	return r.RenderText(text, r.linksEnabled)
}

// RenderText renders text. With linksEnabled false the result is Escape(text).
func (r *Renderer) RenderText(text string, linksEnabled bool) TrustedHTML {
	if text == "" {
		return TrustedHTML{}
	}
	if !linksEnabled || !hasLinkHint(text) {
		return Escaped(text)
	}

	working, replaced := r.replaceMarkdownLinks(text)

	var b strings.Builder
	b.Grow(len(working) + len(working)/4)
	for _, segment := range SegmentAnchors(working) {
		if segment.Kind == SegmentAnchor {
			b.WriteString(segment.Text)
			continue
		}
		replaced += r.renderLiteral(&b, segment.Text)
	}

	// a hint without a completed match (a lone "](") renders as plain text
	if replaced == 0 {
		return Escaped(text)
	}

	if r.sanitizer != nil {
		return r.sanitizer.Sanitize(b.String())
	}
	return TrustedHTML{value: b.String()}
}
