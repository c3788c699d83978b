package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunegraph/tunegraph"
	"github.com/tunegraph/tunegraph/pkg/assembler"
	"github.com/tunegraph/tunegraph/pkg/config"
	"github.com/tunegraph/tunegraph/pkg/loader"
	"github.com/tunegraph/tunegraph/pkg/logger"
	"github.com/tunegraph/tunegraph/pkg/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Assemble the knowledge graph and bulk-load it into Neo4j",
	Long: `Read the parsed input tables, assemble the music knowledge graph, and
replace the contents of the configured Neo4j database with it. Assembly is
deterministic, so re-running import against the same input is idempotent.`,
	RunE: runImport,
}

var importInputDir string

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importInputDir, "input", "./data", "Directory holding the parsed input tables")

	// Database flags
	importCmd.Flags().String("db-uri", "", "Neo4j URI (default from config)")
	importCmd.Flags().String("db-username", "", "Neo4j username")
	importCmd.Flags().String("db-password", "", "Neo4j password")
	importCmd.Flags().String("db-database", "", "Neo4j database name")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideDatabaseFlags(cmd, cfg)
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	tables, err := loader.LoadDir(importInputDir)
	if err != nil {
		return fmt.Errorf("failed to load input tables: %w", err)
	}

	model, stats, err := tunegraph.BuildGraph(tables, &assembler.Options{
		MinAlbumArtists:         cfg.Assembler.MinAlbumArtists,
		SimilarityThreshold:     cfg.Assembler.SimilarityThreshold,
		AllowSelfMemberFallback: cfg.Assembler.AllowSelfMemberFallback,
		Logger:                  log,
	})
	if err != nil {
		return fmt.Errorf("failed to assemble graph: %w", err)
	}
	log.Info("assembled graph", "run_id", stats.RunID, "nodes", stats.Nodes, "edges", stats.Edges)

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
	ctx := cmd.Context()
	defer graphStore.Close(ctx)

	if err := graphStore.Ping(ctx); err != nil {
		return err
	}

	importStats, err := graphStore.Import(ctx, model)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	log.Info("import finished",
		"nodes", importStats.NodesCreated,
		"edges", importStats.EdgesCreated,
		"elapsed", importStats.Elapsed)
	return nil
}

// overrideDatabaseFlags applies explicitly set database flags over config.
func overrideDatabaseFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("db-uri"); v != "" {
		cfg.Database.URI = v
	}
	if v, _ := cmd.Flags().GetString("db-username"); v != "" {
		cfg.Database.Username = v
	}
	if v, _ := cmd.Flags().GetString("db-password"); v != "" {
		cfg.Database.Password = v
	}
	if v, _ := cmd.Flags().GetString("db-database"); v != "" {
		cfg.Database.Database = v
	}
}
