package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tunegraph/tunegraph"
	"github.com/tunegraph/tunegraph/pkg/answer"
	"github.com/tunegraph/tunegraph/pkg/config"
	"github.com/tunegraph/tunegraph/pkg/logger"
	"github.com/tunegraph/tunegraph/pkg/rank"
	"github.com/tunegraph/tunegraph/pkg/server"
	"github.com/tunegraph/tunegraph/pkg/store"
	"github.com/tunegraph/tunegraph/pkg/telemetry"
	"github.com/tunegraph/tunegraph/pkg/verbal"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the TuneGraph HTTP server",
	Long: `Start the TuneGraph HTTP server to provide REST API access to the music
knowledge graph.

The server provides endpoints for:
- Asking questions over the graph (chat)
- Raw GraphRAG retrieval
- Entity lookup, connections, and similarity
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().String("host", "", "Server host")
	serverCmd.Flags().Int("port", 0, "Server port")
	serverCmd.Flags().String("mode", "", "Server mode (debug, release, test)")

	// Database flags
	serverCmd.Flags().String("db-uri", "", "Neo4j URI (default from config)")
	serverCmd.Flags().String("db-username", "", "Neo4j username")
	serverCmd.Flags().String("db-password", "", "Neo4j password")
	serverCmd.Flags().String("db-database", "", "Neo4j database name")

	// Answer model flags
	serverCmd.Flags().String("answer-model", "", "Chat model for answer generation")
	serverCmd.Flags().String("answer-api-key", "", "Chat model API key")
	serverCmd.Flags().String("answer-base-url", "", "Chat model base URL")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for retrieval event parquet files")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideDatabaseFlags(cmd, cfg)
	overrideServerFlags(cmd, cfg)
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	graphStore, err := store.NewStore(store.Options{
		URI:      cfg.Database.URI,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	client, err := buildClient(cfg, graphStore, log)
	if err != nil {
		return err
	}

	// Create and setup server
	srv := server.New(cfg, client)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return client.Close(shutdownCtx)
}

func buildClient(cfg *config.Config, graphStore *store.Store, log *slog.Logger) (*tunegraph.Client, error) {
	keywords, err := rank.LoadKeywordTables(cfg.Retrieval.KeywordsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword tables: %w", err)
	}
	templates, err := verbal.LoadTemplates(cfg.Retrieval.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	clientConfig := &tunegraph.Config{
		MaxHops:   cfg.Retrieval.MaxHops,
		TopK:      cfg.Retrieval.TopK,
		Keywords:  keywords,
		Templates: templates,
		ContextOptions: []verbal.ContextOption{
			verbal.WithMaxContextLength(cfg.Retrieval.MaxContextLength),
			verbal.WithMaxTriplesPerPath(cfg.Retrieval.MaxTriplesPerPath),
		},
	}
	if cfg.Telemetry.ParquetPath != "" {
		recorder, err := telemetry.NewRecorder(cfg.Telemetry.ParquetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to set up telemetry: %w", err)
		}
		clientConfig.Recorder = recorder
	}
	if cfg.Answer.APIKey != "" {
		clientConfig.Answerer = answer.NewOpenAIAnswerer(answer.Config{
			APIKey:      cfg.Answer.APIKey,
			BaseURL:     cfg.Answer.BaseURL,
			Model:       cfg.Answer.Model,
			MaxTokens:   cfg.Answer.MaxTokens,
			Temperature: cfg.Answer.Temperature,
		})
	} else {
		log.Warn("no answer API key configured, chat endpoint disabled")
	}

	return tunegraph.NewClient(graphStore, clientConfig, log)
}

// overrideServerFlags applies explicitly set server flags over config.
func overrideServerFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Server.Host = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Server.Port = v
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		cfg.Server.Mode = v
	}
	if v, _ := cmd.Flags().GetString("answer-model"); v != "" {
		cfg.Answer.Model = v
	}
	if v, _ := cmd.Flags().GetString("answer-api-key"); v != "" {
		cfg.Answer.APIKey = v
	}
	if v, _ := cmd.Flags().GetString("answer-base-url"); v != "" {
		cfg.Answer.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("telemetry-parquet-path"); v != "" {
		cfg.Telemetry.ParquetPath = v
	}
}
