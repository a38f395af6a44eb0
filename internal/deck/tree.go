package deck

import "sort"

// CardEntry is one render line.
type CardEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RenderNode is one non-empty category ready for display.
type RenderNode struct {
	CategoryKey Category    `json:"categoryKey"`
	Label       string      `json:"label"`
	Cards       []CardEntry `json:"cards"`
}

// ToRenderTree projects d onto order, skipping empty categories. Cards are
// sorted by name (byte order). A nil order means Categories.
func ToRenderTree(d Decklist, order []Category) []RenderNode {
	if order == nil {
		order = Categories
	}
	nodes := make([]RenderNode, 0, len(order))
	for _, c := range order {
		cards := d[c]
		if len(cards) == 0 {
			continue
		}
		nodes = append(nodes, RenderNode{
			CategoryKey: c,
			Label:       c.Label(),
			Cards:       compileCardList(cards),
		})
	}
	return nodes
}

func compileCardList(cards Cards) []CardEntry {
	list := make([]CardEntry, 0, len(cards))
	for name, count := range cards {
		list = append(list, CardEntry{Name: name, Count: count})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
