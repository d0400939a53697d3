package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	HF        HFConfig        `yaml:"huggingface"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Database  DatabaseConfig  `yaml:"database"`
	Retriever RetrieverConfig `yaml:"retriever"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Processor ProcessorConfig `yaml:"processor"`
	DemoMode  bool            `yaml:"demo_mode"`
}

type ServerConfig struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// HFConfig configures the Hugging Face inference backend. An empty APIKey
// or Model disables the remote generative tier.
type HFConfig struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Enabled bool   `yaml:"enabled"`
}

type DatabaseConfig struct {
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
	VectorDim int    `yaml:"vector_dim"`
}

type RetrieverConfig struct {
	TopK           int     `yaml:"top_k"`
	MatchThreshold float32 `yaml:"match_threshold"`
}

type ScraperConfig struct {
	MaxPages          int      `yaml:"max_pages"`
	MaxDepth          int      `yaml:"max_depth"`
	RateLimit         float64  `yaml:"rate_limit"`
	IgnorePatterns    []string `yaml:"ignore_patterns"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

type ProcessorConfig struct {
	SnippetLength    int `yaml:"snippet_length"`
	MinContentLength int `yaml:"min_content_length"`
	MaxContentLength int `yaml:"max_content_length"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/farm-guru/config.yaml"),
			"/etc/farm-guru/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8000"
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.LogFormat == "" {
		config.Server.LogFormat = "console"
	}

	if config.HF.BaseURL == "" {
		config.HF.BaseURL = "https://api-inference.huggingface.co/models"
	}
	if config.HF.MaxTokens == 0 {
		config.HF.MaxTokens = 256
	}

	if config.Embedding.Model == "" {
		config.Embedding.Model = "nomic-embed-text:latest"
	}
	if config.Embedding.BaseURL == "" {
		config.Embedding.BaseURL = "http://localhost:11434"
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "docs"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 768
	}

	if config.Retriever.TopK == 0 {
		config.Retriever.TopK = 3
	}
	if config.Retriever.MatchThreshold == 0 {
		config.Retriever.MatchThreshold = 0.3
	}

	if config.Scraper.MaxPages == 0 {
		config.Scraper.MaxPages = 25
	}
	if config.Scraper.MaxDepth == 0 {
		config.Scraper.MaxDepth = 3
	}
	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 2.0
	}
	if len(config.Scraper.AllowedExtensions) == 0 {
		config.Scraper.AllowedExtensions = []string{".html", ".htm", "/", ""}
	}

	if config.Processor.SnippetLength == 0 {
		config.Processor.SnippetLength = 160
	}
	if config.Processor.MinContentLength == 0 {
		config.Processor.MinContentLength = 80
	}
	if config.Processor.MaxContentLength == 0 {
		config.Processor.MaxContentLength = 4000
	}
}

func mergeWithEnv(config *Config) {
	if apiKey := os.Getenv("HF_API_KEY"); apiKey != "" {
		config.HF.APIKey = apiKey
	}
	if model := os.Getenv("HF_MODEL"); model != "" {
		config.HF.Model = model
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.Embedding.BaseURL = baseURL
		config.Embedding.Enabled = true
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}
	if demo := os.Getenv("DEMO_MODE"); demo != "" {
		config.DemoMode = strings.EqualFold(demo, "true") || demo == "1"
	}
}
