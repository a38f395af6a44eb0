// Package render turns a stored decklist payload into an output tree that a
// host document renderer can serialize. It holds no state and is safe for
// concurrent use.
package render

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/youruser/decklist/internal/deck"
)

// Kind names the role of a Node in the output tree.
type Kind string

const (
	KindContainer Kind = "container"
	KindHeader    Kind = "header"
	KindTitle     Kind = "title"
	KindPlayer    Kind = "player"
	KindBody      Kind = "body"
	KindLabel     Kind = "label"
	KindCard      Kind = "card"
	KindText      Kind = "text"
)

// Node is an element of the output tree. Text is set only on KindText nodes.
type Node struct {
	Kind     Kind    `json:"kind"`
	Category string  `json:"category,omitempty"`
	Text     string  `json:"text,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

func text(s string) *Node { return &Node{Kind: KindText, Text: s} }

// Render builds the output tree for p: an optional header, then a body with
// a label and card lines per non-empty category. Each card line carries two
// text runs, "{count}x" and "[[{name}]]"; the bracketed run is left for a
// downstream link resolver.
//
// Unknown category keys and categories holding invalid counts are skipped
// with a warning so one bad category does not hide the rest of the list.
func Render(p deck.Payload, logger *zap.Logger) *Node {
	if logger == nil {
		logger = zap.NewNop()
	}
	container := &Node{Kind: KindContainer}

	if p.DecklistName != "" || p.DecklistPlayerName != "" {
		header := &Node{Kind: KindHeader}
		header.Children = append(header.Children, &Node{Kind: KindTitle, Children: []*Node{text(p.DecklistName)}})
		if p.DecklistPlayerName != "" {
			header.Children = append(header.Children, &Node{Kind: KindPlayer, Children: []*Node{text("By " + p.DecklistPlayerName)}})
		}
		container.Children = append(container.Children, header)
	}

	for _, key := range deck.UnknownCategories(p) {
		logger.Warn("skipping unknown decklist category", zap.String("category", key))
	}

	d := deck.New()
	for _, c := range deck.Categories {
		entries, ok := p.Decklist[string(c)]
		if !ok {
			continue
		}
		single := deck.Payload{Decklist: deck.RawDecklist{string(c): entries}}
		parsed, err := deck.FromPayload(single)
		if err != nil {
			logger.Warn("skipping malformed decklist category", zap.String("category", string(c)), zap.Error(err))
			continue
		}
		d[c] = parsed[c]
	}

	body := &Node{Kind: KindBody}
	for _, node := range deck.ToRenderTree(d, deck.Categories) {
		key := string(node.CategoryKey)
		body.Children = append(body.Children, &Node{Kind: KindLabel, Category: key, Children: []*Node{text(node.Label)}})
		for _, card := range node.Cards {
			body.Children = append(body.Children, &Node{
				Kind:     KindCard,
				Category: key,
				Children: []*Node{
					text(strconv.Itoa(card.Count) + "x"),
					text("[[" + card.Name + "]]"),
				},
			})
		}
	}
	container.Children = append(container.Children, body)
	return container
}

// Lines flattens the tree into its text content, one entry per leaf-bearing
// node. Useful for logs and plain-text hosts.
func (n *Node) Lines() []string {
	var out []string
	var walk func(*Node)
	walk = func(n *Node) {
		if len(n.Children) > 0 && n.Children[0].Kind == KindText {
			s := ""
			for _, c := range n.Children {
				s += c.Text
			}
			out = append(out, s)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}
