package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmoraes/quadro/internal/board"
	"github.com/fmoraes/quadro/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "quadro",
	Short: "Task board over a shared tabular store",
	Long: `quadro manages a kanban-style task board backed by a tabular store
(CSV file or SQLite database). The same board can be served to tools and
agents over HTTP with a real-time WebSocket feed, or driven directly from
this CLI.

Configuration is read from quadro.yaml (working directory or
~/.config/quadro), overridable with QUADRO_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
}

// openBoard builds a board from the loaded config for one-shot commands.
// The returned closer releases the store (a no-op for CSV).
func openBoard() (*board.Board, *config.Config, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	st, closeStore, err := cfg.OpenStore()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return board.New(st, nil), cfg, closeStore, nil
}
