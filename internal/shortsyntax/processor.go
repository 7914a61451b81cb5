package shortsyntax

import (
	"context"
	"strings"

	"github.com/goliatone/go-linkify/internal/links"
	"github.com/goliatone/go-linkify/internal/logging"
	"github.com/goliatone/go-linkify/pkg/interfaces"
)

// Attachment is a URL pulled out of a title by the extract behaviour.
type Attachment struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Result is the processed title ready for rendering.
type Result struct {
	Title       string       `json:"title"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Processor applies the configured URL behaviour to titles before they are
// rendered. It is safe for concurrent use.
type Processor struct {
	config   Config
	resolver interfaces.TitleResolver
	logger   interfaces.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithResolver sets the title resolver used by extract and keep-title.
func WithResolver(resolver interfaces.TitleResolver) ProcessorOption {
	return func(p *Processor) {
		p.resolver = resolver
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProcessor builds a processor. Without a resolver URLs serve as their
// own titles.
func NewProcessor(cfg Config, opts ...ProcessorOption) *Processor {
	p := &Processor{
		config: cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the processor configuration.
func (p *Processor) Config() Config {
	return p.config
}

// Apply processes title according to the URL behaviour.
func (p *Processor) Apply(ctx context.Context, title string) (Result, error) {
	if err := p.config.Validate(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var result Result
	switch p.config.URLBehavior {
	case URLBehaviorExtract:
		result = p.extract(ctx, title)
	case URLBehaviorKeepTitle:
		result = p.keepTitle(ctx, title)
	default:
		result = Result{Title: title}
	}

	p.logger.Debug("shortsyntax.apply",
		"behavior", p.config.URLBehavior.String(),
		"attachments", len(result.Attachments),
	)
	return result, nil
}

func (p *Processor) extract(ctx context.Context, title string) Result {
	var attachments []Attachment

	var b strings.Builder
	last := 0
	for _, link := range links.FindMarkdownLinks(title) {
		href, ok := links.HrefFor(link.Target)
		if !ok {
			continue
		}
		label := strings.TrimSpace(link.Label)
		if label == "" {
			label = p.resolve(ctx, href)
		}
		b.WriteString(title[last:link.Start])
		b.WriteString(" ")
		last = link.End
		attachments = append(attachments, Attachment{URL: href, Title: label})
	}
	b.WriteString(title[last:])
	remaining := b.String()

	b.Reset()
	last = 0
	for _, match := range links.FindURLs(remaining) {
		if !match.Safe {
			continue
		}
		b.WriteString(remaining[last:match.Start])
		b.WriteString(" ")
		last = match.End
		attachments = append(attachments, Attachment{URL: match.Href, Title: p.resolve(ctx, match.URL)})
	}
	b.WriteString(remaining[last:])

	return Result{
		Title:       strings.Join(strings.Fields(b.String()), " "),
		Attachments: attachments,
	}
}

// keepTitle rewrites bare URLs as markdown links labelled with the resolved
// title. Lookups run concurrently.
func (p *Processor) keepTitle(ctx context.Context, title string) Result {
	if p.resolver == nil {
		return Result{Title: title}
	}

	markdown := links.FindMarkdownLinks(title)
	var candidates []links.URLMatch
	for _, match := range links.FindURLs(title) {
		if !match.Safe || insideMarkdown(markdown, match) || strings.ContainsAny(match.URL, "()[]") || afterOpenBracket(title, match.Start) {
			continue
		}
		candidates = append(candidates, match)
	}
	if len(candidates) == 0 {
		return Result{Title: title}
	}

	pending := make([]<-chan string, len(candidates))
	for i, match := range candidates {
		pending[i] = p.resolver.ResolveAsync(ctx, match.URL, match.URL)
	}

	var b strings.Builder
	last := 0
	for i, match := range candidates {
		resolved := strings.TrimSpace(<-pending[i])
		if resolved == "" || resolved == match.URL {
			continue
		}
		b.WriteString(title[last:match.Start])
		b.WriteString("[")
		b.WriteString(labelReplacer.Replace(resolved))
		b.WriteString("](")
		b.WriteString(match.URL)
		b.WriteString(")")
		last = match.End
	}
	b.WriteString(title[last:])
	return Result{Title: b.String()}
}

var labelReplacer = strings.NewReplacer("[", "(", "]", ")")

func (p *Processor) resolve(ctx context.Context, rawURL string) string {
	if p.resolver == nil {
		return rawURL
	}
	return p.resolver.Resolve(ctx, rawURL, rawURL)
}

func insideMarkdown(spans []links.MarkdownLink, match links.URLMatch) bool {
	for _, span := range spans {
		if match.Start < span.End && match.End > span.Start {
			return true
		}
	}
	return false
}

// afterOpenBracket reports whether an unclosed "[" precedes pos. A link
// inserted there would be read as part of that bracket's label.
func afterOpenBracket(text string, pos int) bool {
	i := strings.LastIndexAny(text[:pos], "[]")
	return i >= 0 && text[i] == '['
}
