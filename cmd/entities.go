package main

import (
	"github.com/spf13/cobra"

	"incident-rag/internal/document"
	"incident-rag/internal/entity"
)

var entitiesOutput string

var entitiesCmd = &cobra.Command{
	Use:   "entities [document]",
	Short: "Extract named entities and relationships from the narrative",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntities,
}

func init() {
	entitiesCmd.Flags().StringVarP(&entitiesOutput, "output", "o", "entities.json", "output JSON file")
	rootCmd.AddCommand(entitiesCmd)
}

func runEntities(cmd *cobra.Command, args []string) error {
	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}

	entities := entity.Extract(doc.Text)
	rels := entity.Relationships(entities)
	if err := entity.WriteReport(entitiesOutput, doc.Source, entities, rels); err != nil {
		return err
	}

	cmd.Printf("Found %d entities and %d relationships, saved to %s\n", len(entities), len(rels), entitiesOutput)
	return nil
}
