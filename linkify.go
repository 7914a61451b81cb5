package linkify

import (
	"context"

	titlescmd "github.com/goliatone/go-linkify/internal/commands/titles"
	"github.com/goliatone/go-linkify/internal/di"
	"github.com/goliatone/go-linkify/internal/links"
	"github.com/goliatone/go-linkify/internal/shortsyntax"
	"github.com/goliatone/go-linkify/internal/titles"
)

// TrustedHTML is escaped markup safe to insert into a document as is.
type TrustedHTML = links.TrustedHTML

// Renderer exports the link renderer.
type Renderer = links.Renderer

// Sanitizer exports the bluemonday-backed trust boundary.
type Sanitizer = links.Sanitizer

// URLMatch exports a bare URL found by FindURLs.
type URLMatch = links.URLMatch

// TitleResolver exports the caching title resolver.
type TitleResolver = titles.Resolver

// Processor exports the short-syntax processor.
type Processor = shortsyntax.Processor

// Attachment exports a URL extracted from a title.
type Attachment = shortsyntax.Attachment

// ProcessResult exports the short-syntax processing result.
type ProcessResult = shortsyntax.Result

// PrefetchTitlesCommand exports the cache warming command.
type PrefetchTitlesCommand = titlescmd.PrefetchTitlesCommand

// ClearTitleCacheCommand exports the cache clearing command.
type ClearTitleCacheCommand = titlescmd.ClearTitleCacheCommand

// Module is the linkify runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Renderer returns the configured renderer.
func (m *Module) Renderer() *Renderer {
	return m.container.Renderer()
}

// Titles returns the configured title resolver.
func (m *Module) Titles() *TitleResolver {
	return m.container.Resolver()
}

// ShortSyntax returns the configured short-syntax processor.
func (m *Module) ShortSyntax() *Processor {
	return m.container.Processor()
}

// Render renders text with the configured link mode.
func (m *Module) Render(text string) TrustedHTML {
	return m.container.Renderer().Render(text)
}

// RenderTitle applies the short-syntax URL behaviour to title and renders
// the outcome. Attachments are returned only by the extract behaviour.
func (m *Module) RenderTitle(ctx context.Context, title string) (TrustedHTML, []Attachment, error) {
	result, err := m.container.Processor().Apply(ctx, title)
	if err != nil {
		return TrustedHTML{}, nil, err
	}
	return m.container.Renderer().Render(result.Title), result.Attachments, nil
}

// ResolveTitle returns the page title for rawURL, or fallback.
func (m *Module) ResolveTitle(ctx context.Context, rawURL, fallback string) string {
	return m.container.Resolver().Resolve(ctx, rawURL, fallback)
}

// PrefetchTitles warms the title cache through the command handler.
func (m *Module) PrefetchTitles(ctx context.Context, urls ...string) error {
	return m.container.PrefetchTitlesHandler().Execute(ctx, PrefetchTitlesCommand{URLs: urls})
}

// ClearTitleCache drops every cached title through the command handler.
func (m *Module) ClearTitleCache(ctx context.Context) error {
	return m.container.ClearTitleCacheHandler().Execute(ctx, ClearTitleCacheCommand{})
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Render renders text with links enabled using the default renderer.
func Render(text string) TrustedHTML {
	return links.Render(text, true)
}

// RenderText renders text; with linksEnabled false it only escapes.
func RenderText(text string, linksEnabled bool) TrustedHTML {
	return links.Render(text, linksEnabled)
}

// Escape escapes &, <, > and " in text.
func Escape(text string) string {
	return links.Escape(text)
}

// Escaped returns Escape(text) as TrustedHTML.
func Escaped(text string) TrustedHTML {
	return links.Escaped(text)
}

// IsSchemeSafe reports whether rawURL may be used as an href.
func IsSchemeSafe(rawURL string) bool {
	return links.IsSchemeSafe(rawURL)
}

// NormalizeHref qualifies protocol-relative and schemeless URLs.
func NormalizeHref(rawURL string) string {
	return links.NormalizeHref(rawURL)
}

// FindURLs lists the bare URLs in text.
func FindURLs(text string) []URLMatch {
	return links.FindURLs(text)
}
