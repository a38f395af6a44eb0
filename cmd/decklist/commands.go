package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/decklist/internal/cards"
	"github.com/youruser/decklist/internal/deck"
	imagepkg "github.com/youruser/decklist/internal/image"
	"github.com/youruser/decklist/internal/lookup"
	"github.com/youruser/decklist/internal/render"
)

func newClassifyCommand() *cobra.Command {
	var sideboard bool
	cmd := &cobra.Command{
		Use:   "classify <type line...>",
		Short: "Show the category a type line is filed under",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), deck.Classify(strings.Join(args, " "), sideboard))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&sideboard, "sideboard", "s", false, "file under the sideboard")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search catalog card names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := cards.NewConfiguredSource(ctx.cfg, ctx.logger)
			if err != nil {
				return err
			}
			results, err := source.Search(cmd.Context(), strings.Join(args, " "), ctx.cfg.Catalog.SearchLimit)
			if err != nil {
				if msg := source.LastError(); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			for _, name := range results {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var sideboard bool
	cmd := &cobra.Command{
		Use:   "add <payload.json> <query>",
		Short: "Look up a card and add one copy to a payload file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			payload, err := readPayload(path)
			if err != nil {
				return err
			}
			d, err := deck.FromPayload(payload)
			if err != nil {
				return err
			}
			source, err := cards.NewConfiguredSource(ctx.cfg, ctx.logger)
			if err != nil {
				return err
			}
			resolver := lookup.NewResolver(source, ctx.cfg.Catalog.SearchLimit, ctx.logger)
			query := strings.Join(args[1:], " ")
			next, placed, err := resolver.ResolveAndPlace(cmd.Context(), query, lookup.Mode{Sideboard: sideboard}, d, lookup.First)
			if err != nil {
				return err
			}
			ctx.logger.Info("card added",
				zap.String("name", placed.Name),
				zap.String("category", string(placed.Category)),
				zap.Int("count", next.Count(placed.Category, placed.Name)))
			return writePayload(path, payload.WithDecklist(next))
		},
	}
	cmd.Flags().BoolVarP(&sideboard, "sideboard", "s", false, "add to the sideboard")
	return cmd
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "render <payload.json>",
		Short: "Render a payload as a table or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asHTML {
				if err := render.WriteHTML(out, render.Render(payload, ctx.logger)); err != nil {
					return err
				}
				fmt.Fprintln(out)
				return nil
			}
			d, err := deck.FromPayload(payload)
			if err != nil {
				return err
			}
			if payload.DecklistName != "" {
				fmt.Fprintln(out, payload.DecklistName)
			}
			if payload.DecklistPlayerName != "" {
				fmt.Fprintln(out, "By "+payload.DecklistPlayerName)
			}
			fmt.Fprintln(out, renderDecklistTable(d))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "emit HTML instead of a table")
	return cmd
}

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <payload.json>",
		Short: "Print a payload as plain text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[0])
			if err != nil {
				return err
			}
			d, err := deck.FromPayload(payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), deck.ExportText(payload.DecklistName, payload.DecklistPlayerName, d))
			return nil
		},
	}
}

func newQRCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "qr <payload.json>",
		Short: "Write a QR code PNG of the exported list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[0])
			if err != nil {
				return err
			}
			d, err := deck.FromPayload(payload)
			if err != nil {
				return err
			}
			b, err := imagepkg.GenerateQRPNG(deck.ExportText(payload.DecklistName, payload.DecklistPlayerName, d), ctx.cfg.Share.QRSize)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, b, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote "+output+" ("+strconv.Itoa(len(b))+" bytes)")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "decklist.png", "output file")
	return cmd
}
