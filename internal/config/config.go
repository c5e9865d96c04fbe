package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v9"
)

type Config struct {
	Server  ServerConfig
	Ollama  OllamaConfig
	Storage StorageConfig
	Chat    ChatConfig
	Log     LogConfig
	MCP     MCPConfig
}

type ServerConfig struct {
	Host string `toml:"host" env:"TODOCHAT_HOST"`
	Port int    `toml:"port" env:"TODOCHAT_PORT"`
}

type OllamaConfig struct {
	BaseURL string `toml:"base_url" env:"TODOCHAT_OLLAMA_URL"`
	// Model overrides automatic selection; empty means pick the best
	// llama-family model the backend offers.
	Model string `toml:"model" env:"TODOCHAT_MODEL"`
}

type StorageConfig struct {
	DataDir string `toml:"data_dir" env:"TODOCHAT_DATA_DIR"`
}

type ChatConfig struct {
	// ReplayInterval is the pause between word increments of the typing
	// reveal, as a duration string.
	ReplayInterval string `toml:"replay_interval" env:"TODOCHAT_REPLAY_INTERVAL"`
}

type LogConfig struct {
	Level string `toml:"level" env:"TODOCHAT_LOG_LEVEL"`
}

type MCPConfig struct {
	// Enabled starts the MCP stdio server alongside the web server.
	Enabled bool `toml:"enabled" env:"TODOCHAT_MCP"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5001,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Chat: ChatConfig{
			ReplayInterval: "50ms",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".todochat")
	}
	return "data"
}

// Load reads configuration in ascending precedence: compiled-in defaults,
// then an optional TOML file (TODOCHAT_CONFIG or ./config.toml), then
// TODOCHAT_* environment variables.
func Load() (Config, error) {
	cfg := defaults()

	path := os.Getenv("TODOCHAT_CONFIG")
	if path == "" {
		path = "config.toml"
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}
