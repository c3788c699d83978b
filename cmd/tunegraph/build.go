package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunegraph/tunegraph"
	"github.com/tunegraph/tunegraph/pkg/assembler"
	"github.com/tunegraph/tunegraph/pkg/config"
	"github.com/tunegraph/tunegraph/pkg/export"
	"github.com/tunegraph/tunegraph/pkg/loader"
	"github.com/tunegraph/tunegraph/pkg/logger"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble the knowledge graph and export its tables",
	Long: `Read the parsed input tables from a directory, assemble the music
knowledge graph, and write the node and edge tables to the export directory
as CSV or Parquet.`,
	RunE: runBuild,
}

var (
	buildInputDir  string
	buildOutputDir string
	buildFormat    string
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildInputDir, "input", "./data", "Directory holding the parsed input tables")
	buildCmd.Flags().StringVar(&buildOutputDir, "output", "", "Export directory (default from config)")
	buildCmd.Flags().StringVar(&buildFormat, "format", "", "Export format: csv or parquet (default from config)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	outputDir := cfg.Export.Dir
	if buildOutputDir != "" {
		outputDir = buildOutputDir
	}
	format := cfg.Export.Format
	if buildFormat != "" {
		format = buildFormat
	}

	tables, err := loader.LoadDir(buildInputDir)
	if err != nil {
		return fmt.Errorf("failed to load input tables: %w", err)
	}
	log.Info("loaded input tables",
		"artists", len(tables.Artists), "albums", len(tables.Albums),
		"songs", len(tables.Songs), "awards", len(tables.Awards))

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

	artifacts := export.Export(model)
	switch format {
	case "parquet":
		err = artifacts.WriteParquet(outputDir)
	default:
		err = artifacts.WriteCSV(outputDir)
	}
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	log.Info("wrote export", "dir", outputDir, "format", format)
	return nil
}
