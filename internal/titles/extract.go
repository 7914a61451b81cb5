package titles

import (
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DefaultMaxLength caps extracted titles, in runes.
const DefaultMaxLength = 100

var (
	titleSelector   = cascadia.MustCompile("title")
	ogTitleSelector = cascadia.MustCompile(`meta[property="og:title"]`)
)

// ExtractTitle returns the document title, preferring <title> over the
// og:title meta value. Whitespace is collapsed and the result truncated to
// maxLength runes. An empty string means no title was found.
func ExtractTitle(doc *html.Node, maxLength int) string {
	if doc == nil {
		return ""
	}
	if node := titleSelector.MatchFirst(doc); node != nil {
		if title := cleanTitle(textContent(node), maxLength); title != "" {
			return title
		}
	}
	if node := ogTitleSelector.MatchFirst(doc); node != nil {
		for _, attr := range node.Attr {
			if attr.Key == "content" {
				return cleanTitle(attr.Val, maxLength)
			}
		}
	}
	return ""
}

func textContent(node *html.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return b.String()
}

func cleanTitle(raw string, maxLength int) string {
	title := strings.Join(strings.Fields(raw), " ")
	if maxLength <= 0 || utf8.RuneCountInString(title) <= maxLength {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:maxLength]))
}
