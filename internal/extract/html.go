package extract

import (
	"bytes"
	"strings"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
	"golang.org/x/net/html"
)

// HTMLExtractor handles text/html content: visible text is collected
// from the DOM, script and style subtrees are ignored, and the page
// title lands in metadata.
type HTMLExtractor struct{}

// Extract parses the HTML and returns the visible text.
// Parameters:
//   - data: raw file content.
// Returns:
//   - string: visible text, one block element per line.
//   - domain.MetadataMap: title when the page declares one.
//   - error: ErrCorruptInput if the tree cannot be parsed.
func (e *HTMLExtractor) Extract(data []byte) (string, domain.MetadataMap, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		// html.Parse is extremely tolerant; an error here means the
		// input is not usable as HTML at all.
		return "", nil, ErrCorruptInput
	}

	metadata := domain.MetadataMap{}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					metadata["title"] = normalizeSpaces(n.FirstChild.Data)
				}
				return
			}
		case html.TextNode:
			if trimmed := normalizeSpaces(n.Data); trimmed != "" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(trimmed)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return b.String(), metadata, nil
}
