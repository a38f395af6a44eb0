package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/youruser/decklist/internal/deck"
)

func renderDecklistTable(d deck.Decklist) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Category", "Count", "Card"})

	for _, node := range deck.ToRenderTree(d, deck.Categories) {
		for i, card := range node.Cards {
			label := ""
			if i == 0 {
				label = node.Label
			}
			tw.AppendRow(table.Row{label, strconv.Itoa(card.Count), card.Name})
		}
		tw.AppendSeparator()
	}

	mainCount, side := d.Totals()
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(mainCount + side), "main " + strconv.Itoa(mainCount) + " / side " + strconv.Itoa(side)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
