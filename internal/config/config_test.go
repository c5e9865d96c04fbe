package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TODOCHAT_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 5001 {
		t.Errorf("Port = %d, want 5001", cfg.Server.Port)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("BaseURL = %q", cfg.Ollama.BaseURL)
	}
	if cfg.Chat.ReplayInterval != "50ms" {
		t.Errorf("ReplayInterval = %q, want 50ms", cfg.Chat.ReplayInterval)
	}
	if cfg.MCP.Enabled {
		t.Error("MCP enabled by default")
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
port = 9000

[ollama]
model = "llama3.1:latest"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("TODOCHAT_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Ollama.Model != "llama3.1:latest" {
		t.Errorf("Model = %q", cfg.Ollama.Model)
	}
	// Unset keys keep their defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = 9000\n"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("TODOCHAT_CONFIG", path)
	t.Setenv("TODOCHAT_PORT", "7777")
	t.Setenv("TODOCHAT_MCP", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("Port = %d, want env override 7777", cfg.Server.Port)
	}
	if !cfg.MCP.Enabled {
		t.Error("MCP.Enabled = false, want env override true")
	}
}
