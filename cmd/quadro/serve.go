package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fmoraes/quadro/internal/board"
	"github.com/fmoraes/quadro/internal/config"
	"github.com/fmoraes/quadro/internal/server"
	"github.com/fmoraes/quadro/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP tool server with a real-time WebSocket feed",
	Long: `Start the tool server over the configured store.

Each board operation is exposed as a POST endpoint under /tools/;
connected WebSocket clients receive task_update and board_reload events
after mutations, enabling live views of the board.

Example usage:
  quadro serve                  # Start on the configured port
  quadro serve --port 9000      # Override the port

Connect with a WebSocket client:
  ws://localhost:8080/ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		logWriter := io.Writer(os.Stderr)
		if cfg.Log.File != "" {
			logWriter = io.MultiWriter(os.Stderr, &lumberjack.Logger{
				Filename:   cfg.Log.File,
				MaxSize:    cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAge:     cfg.Log.MaxAgeDays,
			})
		}

		st, closeStore, err := cfg.OpenStore()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer closeStore()

		b := board.New(st, &board.Config{
			Logger: log.New(logWriter, "[board] ", log.LstdFlags),
		})

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := b.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to load board: %w", err)
		}

		srv := server.NewServer(b, &server.Config{
			Port:   cfg.Server.Port,
			Logger: log.New(logWriter, "[server] ", log.LstdFlags),
		})
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}

		var watcher *watch.Watcher
		if cfg.Watch.Enabled && cfg.Store.Kind == config.StoreCSV {
			watcher, err = watch.New(cfg.Store.Path, b, srv.NotifyReload, &watch.Config{
				Debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
				Logger:   log.New(logWriter, "[watch] ", log.LstdFlags),
			})
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
		}

		fmt.Printf("Tool server started on http://localhost:%d\n", cfg.Server.Port)
		fmt.Printf("WebSocket endpoint: ws://localhost:%d/ws\n", cfg.Server.Port)
		fmt.Printf("Health check: http://localhost:%d/health\n", cfg.Server.Port)
		fmt.Println("\nPress Ctrl+C to stop...")

		<-ctx.Done()

		fmt.Println("\nShutting down...")
		if watcher != nil {
			if err := watcher.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Error stopping watcher: %v\n", err)
			}
		}
		if err := srv.Stop(); err != nil {
			return fmt.Errorf("error during shutdown: %w", err)
		}

		fmt.Println("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
