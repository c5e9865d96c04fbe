package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/artemk/todochat/internal/chat"
	"github.com/artemk/todochat/internal/config"
	mcpapi "github.com/artemk/todochat/internal/mcp"
	"github.com/artemk/todochat/internal/ollama"
	"github.com/artemk/todochat/internal/storage"
	"github.com/artemk/todochat/internal/web"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the todochat server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "todochat.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "todochat version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Write PID file. Check if the server is already running via the health
	// endpoint first.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("todochat is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("todochat is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pick the chat model: an explicit config value wins, otherwise ask the
	// backend for its best llama-family model.
	ollamaClient := ollama.New(cfg.Ollama.BaseURL)
	model := cfg.Ollama.Model
	if model == "" {
		model = ollama.BestModel(ctx, ollamaClient)
	}
	slog.Info("chat model selected", "model", model)

	// A dead backend must not keep the todo list offline: chat errors are
	// handled per-message once the server is up.
	if err := ollama.EnsureReady(ctx, ollamaClient, model, os.Stderr); err != nil {
		printWarning("chat backend not ready, todos still work: %v", err)
	}

	// Open storage.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Build the chat stack: registry of live connections, fragment renderer,
	// and the responder that drives all chat output.
	registry := chat.NewRegistry()
	replayInterval, err := time.ParseDuration(cfg.Chat.ReplayInterval)
	if err != nil {
		slog.Warn("invalid replay interval, using default 50ms", "value", cfg.Chat.ReplayInterval, "error", err)
		replayInterval = 50 * time.Millisecond
	}
	responder := chat.NewResponder(ollamaClient, model, registry, web.FragmentRenderer{}, replayInterval)

	handler := web.NewHandler(web.Deps{
		Store:     store,
		Registry:  registry,
		Responder: responder,
		Logger:    slog.Default(),
	})

	// Optionally expose the todo list over MCP (stdio transport).
	if cfg.MCP.Enabled {
		mcpSrv := mcpapi.NewServer(mcpapi.Deps{Store: store, Responder: responder})
		stdioSrv := server.NewStdioServer(mcpSrv)
		go func() {
			if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
		}()
		slog.Info("MCP server started (stdio transport)")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "todochat listening on http://%s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout, then drain in-flight chat tasks.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	responder.Wait()
	return nil
}
