package fetch

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extract scans an HTML document for IDL blocks and returns their text
// joined by blank lines. When the document holds no block, link is the href
// of the first anchor pointing at an .idl or .webidl file.
func Extract(r io.Reader) (src, link string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if isIDLBlock(n) {
				if text := strings.TrimSpace(textContent(n)); text != "" {
					blocks = append(blocks, text)
				}
				return
			}
			if link == "" && n.DataAtom == atom.A {
				if href := attr(n, "href"); isIDLLink(href) {
					link = href
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(blocks) > 0 {
		return strings.Join(blocks, "\n\n"), "", nil
	}
	return "", link, nil
}

// isIDLBlock matches pre.idl:not(.extract), code.idl-code, <spec-idl> and
// script[type=text/webidl].
func isIDLBlock(n *html.Node) bool {
	switch {
	case n.DataAtom == atom.Pre:
		return hasClass(n, "idl") && !hasClass(n, "extract")
	case n.DataAtom == atom.Code:
		return hasClass(n, "idl-code")
	case n.DataAtom == atom.Script:
		return strings.EqualFold(attr(n, "type"), "text/webidl")
	case n.Data == "spec-idl":
		return true
	}
	return false
}

func isIDLLink(href string) bool {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	href = strings.ToLower(href)
	return strings.HasSuffix(href, ".idl") || strings.HasSuffix(href, ".webidl")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textContent concatenates the text below n, like the DOM property.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
