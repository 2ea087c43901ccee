package mapping

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SanitizeHTML re-renders an HTML fragment without scripts, event handler
// attributes and xml:lang attributes.
func SanitizeHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	nodes, err := parseFragment(s)
	if err != nil {
		return html.EscapeString(s)
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		if dropElement(n) {
			continue
		}
		cleanNode(n)
		if err := html.Render(&buf, n); err != nil {
			return html.EscapeString(s)
		}
	}
	return buf.String()
}

// HTMLToText converts an HTML fragment to plain text. Images are dropped
// and links keep their text only.
func HTMLToText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	nodes, err := parseFragment(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}
	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func parseFragment(s string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(s), body)
}

func dropElement(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style)
}

func cleanNode(n *html.Node) {
	if n.Type == html.ElementNode {
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			if isXMLLang(a) || strings.HasPrefix(strings.ToLower(a.Key), "on") {
				continue
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if dropElement(c) {
			n.RemoveChild(c)
		} else {
			cleanNode(c)
		}
		c = next
	}
}

func isXMLLang(a html.Attribute) bool {
	return strings.EqualFold(a.Key, "xml:lang") || (a.Namespace == "xml" && a.Key == "lang")
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Table: true, atom.Blockquote: true,
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Img, atom.Script, atom.Style:
			return
		case atom.Br:
			b.WriteString("\n")
			return
		}
	}
	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteString("\n")
	}
}
