package deck

import (
	"strconv"
	"strings"
)

// ExportText renders d as plain text: an optional "# title" and "By player"
// header, then each non-empty category label followed by "{count}x{name}" lines.
func ExportText(name, player string, d Decklist) string {
	lines := []string{}
	if name != "" {
		lines = append(lines, "# "+name)
	}
	if player != "" {
		lines = append(lines, "By "+player)
	}
	for _, node := range ToRenderTree(d, Categories) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, node.Label)
		for _, c := range node.Cards {
			lines = append(lines, strconv.Itoa(c.Count)+"x"+c.Name)
		}
	}
	return strings.Join(lines, "\n")
}
