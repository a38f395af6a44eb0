package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/decklist/internal/config"
	"github.com/youruser/decklist/internal/deck"
	"github.com/youruser/decklist/internal/logging"
)

type commandContext struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	root := &cobra.Command{
		Use:           "decklist",
		Short:         "Build, render and share card decklists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(ctx.configPath)
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if ctx.verbose {
				level = "debug"
			}
			// CLI output goes to stdout; keep logs human-readable on stderr.
			logger, err := logging.New(level, "console")
			if err != nil {
				return err
			}
			ctx.cfg = cfg
			ctx.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ctx.logger != nil {
				_ = ctx.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "path to config.toml")
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newClassifyCommand(),
		newSearchCommand(ctx),
		newAddCommand(ctx),
		newRenderCommand(ctx),
		newExportCommand(),
		newQRCommand(ctx),
	)
	return root
}

// readPayload reads a JSON payload from path, or stdin when path is "-".
func readPayload(path string) (deck.Payload, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return deck.Payload{}, err
		}
		defer f.Close()
		r = f
	}
	var p deck.Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return deck.Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

func writePayload(path string, p deck.Payload) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
