package render

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type element struct {
	tag   atom.Atom
	class string
}

var elements = map[Kind]element{
	KindContainer: {atom.Figure, "decklist"},
	KindHeader:    {atom.Div, "decklist-header"},
	KindTitle:     {atom.H3, ""},
	KindPlayer:    {atom.H3, ""},
	KindBody:      {atom.Div, "decklist-list"},
	KindLabel:     {atom.H3, "decklist-category"},
	KindCard:      {atom.P, ""},
}

// WriteHTML serializes the tree as an HTML fragment.
func WriteHTML(w io.Writer, n *Node) error {
	return html.Render(w, toHTML(n))
}

// HTML returns the tree as an HTML fragment string.
func HTML(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(n *Node) *html.Node {
	if n.Kind == KindText {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	el, ok := elements[n.Kind]
	if !ok {
		el = element{tag: atom.Div}
	}
	out := &html.Node{Type: html.ElementNode, DataAtom: el.tag, Data: el.tag.String()}
	if el.class != "" {
		out.Attr = append(out.Attr, html.Attribute{Key: "class", Val: el.class})
	}
	if n.Category != "" {
		out.Attr = append(out.Attr, html.Attribute{Key: "data-category", Val: n.Category})
	}
	for _, c := range n.Children {
		out.AppendChild(toHTML(c))
	}
	return out
}
