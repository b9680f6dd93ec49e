package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"incident-rag/internal/document"
)

var indexCmd = &cobra.Command{
	Use:   "index [document]",
	Short: "Chunk, embed, and store a document for retrieval",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}

	if err := a.indexer.Index(context.Background(), doc); err != nil {
		log.Error().Err(err).Msg("Indexing run failed")
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %q into collection %q\n", doc.Source, a.cfg.Store.Collection)
	return nil
}
