// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Assembler configuration
	Assembler AssemblerConfig `mapstructure:"assembler"`

	// Retrieval configuration
	Retrieval RetrievalConfig `mapstructure:"retrieval"`

	// Answer configuration
	Answer AnswerConfig `mapstructure:"answer"`

	// Export configuration
	Export ExportConfig `mapstructure:"export"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// TelemetryConfig holds retrieval telemetry configuration
type TelemetryConfig struct {
	// ParquetPath is where retrieval events are written; empty disables it.
	ParquetPath string `mapstructure:"parquet_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds Neo4j connection configuration
type DatabaseConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// AssemblerConfig holds graph assembly configuration
type AssemblerConfig struct {
	MinAlbumArtists         int     `mapstructure:"min_album_artists"`
	SimilarityThreshold     float64 `mapstructure:"similarity_threshold"`
	AllowSelfMemberFallback bool    `mapstructure:"allow_self_member_fallback"`
}

// RetrievalConfig holds GraphRAG retrieval configuration
type RetrievalConfig struct {
	MaxHops           int    `mapstructure:"max_hops"`
	TopK              int    `mapstructure:"top_k"`
	MaxContextLength  int    `mapstructure:"max_context_length"`
	MaxTriplesPerPath int    `mapstructure:"max_triples_per_path"`
	KeywordsPath      string `mapstructure:"keywords_path"`
	TemplatesPath     string `mapstructure:"templates_path"`
}

// AnswerConfig holds the chat model configuration
type AnswerConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// ExportConfig holds graph export configuration
type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"` // csv, parquet
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.uri", "bolt://localhost:7687")
	viper.SetDefault("database.username", "neo4j")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "neo4j")

	// Assembler defaults
	viper.SetDefault("assembler.min_album_artists", 2)
	viper.SetDefault("assembler.similarity_threshold", 0.3)
	viper.SetDefault("assembler.allow_self_member_fallback", false)

	// Retrieval defaults
	viper.SetDefault("retrieval.max_hops", 3)
	viper.SetDefault("retrieval.top_k", 5)
	viper.SetDefault("retrieval.max_context_length", 2000)
	viper.SetDefault("retrieval.max_triples_per_path", 5)

	// Answer defaults
	viper.SetDefault("answer.model", "gpt-4o-mini")
	viper.SetDefault("answer.max_tokens", 512)

	// Export defaults
	viper.SetDefault("export.dir", "./graph_export")
	viper.SetDefault("export.format", "csv")
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Database credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Database.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Database.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Database.Password = pass
	}
	if database := os.Getenv("NEO4J_DATABASE"); database != "" {
		config.Database.Database = database
	}

	// Answer model credentials
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.Answer.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.Answer.BaseURL = baseURL
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			config.Server.Port = parsed
		}
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
