package main

import (
	"context"

	"github.com/spf13/cobra"

	"incident-rag/internal/document"
)

var (
	askDocument   string
	askShowSource bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Route a question to the QA or timeline path and print the result",
	Long: `Classifies the question and dispatches it. Specific questions are
answered from retrieved passages; timeline requests run both synthesis
strategies over the whole document.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDocument, "file", "f", "", "document path (needed for timeline questions)")
	askCmd.Flags().BoolVar(&askShowSource, "source", false, "also print the retrieved context for QA answers")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	question := args[0]

	var doc document.Document
	if askDocument != "" {
		doc, err = document.Load(askDocument)
		if err != nil {
			return err
		}
	}

	if askShowSource {
		answer, err := a.qa.Answer(ctx, question)
		if err != nil {
			return err
		}
		cmd.Println("Source:")
		cmd.Println(answer.Source)
		cmd.Println()
		cmd.Println("Answer:")
		cmd.Println(answer.Content)
		return nil
	}

	result, err := a.analyzer.Handle(ctx, question, doc)
	if err != nil {
		return err
	}
	cmd.Println(result)
	return nil
}
