package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	History struct {
		Backend string `yaml:"backend"` // "json" or "sqlite"
		Path    string `yaml:"path"`
	} `yaml:"history"`
	AI struct {
		Provider string `yaml:"provider"` // "openai" or "gemini"
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"ai"`
	Diagram struct {
		Source string `yaml:"source"` // "local" or "llm"
	} `yaml:"diagram"`
	Latex struct {
		Binary string `yaml:"binary"`
	} `yaml:"latex"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	var cfg Config

	// 2. Load YAML config; a missing file falls back to defaults.
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(&cfg)

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("STUDYMAP_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("STUDYMAP_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if addr := os.Getenv("STUDYMAP_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if histPath := os.Getenv("STUDYMAP_HISTORY_PATH"); histPath != "" {
		cfg.History.Path = histPath
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = "json"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "data/prompt_history.json"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "openai"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4"
	}
	if cfg.Diagram.Source == "" {
		cfg.Diagram.Source = "local"
	}
	if cfg.Latex.Binary == "" {
		cfg.Latex.Binary = "pdflatex"
	}
}
