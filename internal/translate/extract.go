package translate

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const resultClass = "result-container"

// ExtractResult returns the text of the first result container in page.
// Span wrappers are dropped and <br> becomes a newline. An empty container is
// a valid empty result; ErrNoTranslation means the page has no container.
func ExtractResult(page io.Reader) (string, error) {
	doc, err := html.Parse(page)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	node := findResult(doc)
	if node == nil {
		return "", ErrNoTranslation
	}

	var sb strings.Builder
	collectText(node, &sb)
	return sb.String(), nil
}

func findResult(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Div && hasClass(n, resultClass) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findResult(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, f := range strings.Fields(a.Val) {
			if f == class {
				return true
			}
		}
	}
	return false
}

func collectText(n *html.Node, sb *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			if c.DataAtom == atom.Br {
				sb.WriteByte('\n')
				continue
			}
			collectText(c, sb)
		}
	}
}
