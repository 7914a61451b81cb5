package links

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

// MarkdownLink is a [label](target) span found in a string.
type MarkdownLink struct {
	Start, End int
	Label      string
	Target     string
}

// FindMarkdownLinks returns the non-overlapping markdown links in text, left
// to right. Spans with a blank target are not links.
func FindMarkdownLinks(text string) []MarkdownLink {
	if !strings.Contains(text, "](") {
		return nil
	}
	var found []MarkdownLink
	for _, m := range markdownLinkPattern.FindAllStringSubmatchIndex(text, -1) {
		target := text[m[4]:m[5]]
		if strings.TrimSpace(target) == "" {
			continue
		}
		found = append(found, MarkdownLink{
			Start:  m[0],
			End:    m[1],
			Label:  text[m[2]:m[3]],
			Target: target,
		})
	}
	return found
}

// replaceMarkdownLinks swaps every markdown link for an anchor, or for its
// bare label when the target scheme is unsafe. Text outside the links, and
// the labels of dropped links, are left unescaped: the plain URL pass escapes
// them exactly once.
func (r *Renderer) replaceMarkdownLinks(text string) (string, int) {
	matches := FindMarkdownLinks(text)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text) + len(matches)*len(anchorAttributes))

	replaced := 0
	last := 0
	for _, link := range matches {
		if utf8.RuneCountInString(link.Target) > r.maxURLLength {
			r.logger.Debug("links.render.markdown_target_too_long", "length", len(link.Target))
			continue
		}

		b.WriteString(text[last:link.Start])
		last = link.End
		replaced++

		href, ok := HrefFor(link.Target)
		if !ok {
			r.logger.Debug("links.render.unsafe_link_dropped", "source", "markdown")
			b.WriteString(link.Label)
			continue
		}

		label := link.Label
		if strings.TrimSpace(label) == "" {
			label = strings.TrimSpace(link.Target)
		}
		writeAnchor(&b, href, label)
	}
	b.WriteString(text[last:])
	return b.String(), replaced
}
