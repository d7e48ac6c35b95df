package page

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// selectorText parses rawHTML, matches elements against selector and
// returns their concatenated visible text. No matches yield an empty
// string: a missing content block is a scoring signal, not a parse error.
func selectorText(rawHTML, selector string) (string, error) {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	var parts []string
	for _, node := range cascadia.QueryAll(doc, sel) {
		if text := nodeText(node); text != "" {
			parts = append(parts, text)
		}
	}

	return collapseSpace(strings.Join(parts, " ")), nil
}

// nodeText walks a node subtree collecting text, skipping script and style.
func nodeText(n *html.Node) string {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return ""
		}
	}
	if n.Type == html.TextNode {
		return n.Data
	}

	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(nodeText(child))
		b.WriteString(" ")
	}
	return b.String()
}
