package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/artemk/todochat/internal/config"
	"github.com/artemk/todochat/internal/ollama"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running todochat server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show todochat system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the chat backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listModels()
	},
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("todochat is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop todochat (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to todochat (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	// Check server health.
	serverURL := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	// Check the chat backend.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ollamaClient := ollama.New(cfg.Ollama.BaseURL)
	if ollamaClient.IsRunning(ctx) {
		printStatus("Ollama", "running at %s", cfg.Ollama.BaseURL)
	} else {
		printStatus("Ollama", "not running")
	}

	if cfg.Ollama.Model != "" {
		printStatus("Chat model", "%s", cfg.Ollama.Model)
	} else {
		printStatus("Chat model", "auto (%s)", ollama.BestModel(ctx, ollamaClient))
	}

	printStatus("Replay interval", "%s", cfg.Chat.ReplayInterval)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

func listModels() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ollamaClient := ollama.New(cfg.Ollama.BaseURL)
	names, err := ollamaClient.ListModels(ctx)
	if err != nil {
		printError("backend not reachable at %s: %v", cfg.Ollama.BaseURL, err)
		return err
	}
	if len(names) == 0 {
		fmt.Println("No models installed. Pull one with: ollama pull llama2")
		return nil
	}

	selected := cfg.Ollama.Model
	if selected == "" {
		selected = ollama.BestModel(ctx, ollamaClient)
	}

	for _, name := range names {
		if name == selected {
			fmt.Printf("* %s\n", boldColor.Sprint(name))
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}
