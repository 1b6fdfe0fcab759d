// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables with the LODESTONE_ prefix (runtime override)
//  2. Config file (./lodestone.yaml or /etc/lodestone/lodestone.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: chat model, embedder model, provider selection
//   - Storage: PostgreSQL connection (see storage.go)
//   - RAG: chunking window and overlap, search result count
//   - Server: listen address, auth tokens
//
// Sensitive values (passwords, tokens) are never logged.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates the chat model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidChunking indicates the chunk size/overlap combination is unusable.
	ErrInvalidChunking = errors.New("invalid chunking configuration")
)

// Providers supported for chat and embedding backends.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds all application configuration.
type Config struct {
	// AI backend
	Provider      string `mapstructure:"provider"`
	ModelName     string `mapstructure:"model_name"`
	EmbedderModel string `mapstructure:"embedder_model"`
	OllamaHost    string `mapstructure:"ollama_host"`

	// RAG pipeline
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	SearchTopK   int `mapstructure:"search_top_k"`

	// Embedding backend throttle (requests per second, 0 = unlimited)
	EmbedRPS   float64 `mapstructure:"embed_rps"`
	EmbedBurst int     `mapstructure:"embed_burst"`

	// PostgreSQL (see storage.go for DSN helpers)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDBName   string `mapstructure:"postgres_dbname"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode"`

	// HTTP server
	ListenAddr string `mapstructure:"listen_addr"`

	// AuthTokens maps bearer tokens to tenant IDs (UUID strings).
	// With no tokens configured every authenticated route returns 401.
	AuthTokens map[string]string `mapstructure:"auth_tokens"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load reads configuration from file, environment, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("lodestone")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/lodestone")

	v.SetEnvPrefix("LODESTONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; env + defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGemini)
	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("embedder_model", "text-embedding-004")
	v.SetDefault("ollama_host", "http://localhost:11434")

	v.SetDefault("chunk_size", 512)
	v.SetDefault("chunk_overlap", 64)
	v.SetDefault("search_top_k", 4)

	v.SetDefault("embed_rps", 5.0)
	v.SetDefault("embed_burst", 10)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "lodestone")
	v.SetDefault("postgres_dbname", "lodestone")
	v.SetDefault("postgres_sslmode", "disable")

	v.SetDefault("listen_addr", "127.0.0.1:8080")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// SLogLevel converts the configured log level string to slog.Level.
// Unknown values fall back to info.
func (c *Config) SLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
