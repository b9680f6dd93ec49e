package main

import (
	"context"

	"github.com/spf13/cobra"

	"incident-rag/internal/eval"
)

var evaluateOutput string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [ground-truth.json]",
	Short: "Score QA answers against a ground-truth question set",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "output", "o", "evaluation.json", "output JSON report")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	items, err := eval.LoadGroundTruth(args[0])
	if err != nil {
		return err
	}

	harness := eval.New(a.qa, a.completer)
	report, err := harness.Evaluate(context.Background(), items)
	if err != nil {
		return err
	}
	if err := eval.WriteReport(evaluateOutput, report); err != nil {
		return err
	}

	cmd.Printf("Evaluated %d questions, mean correctness %.2f, report saved to %s\n",
		len(report.Scores), report.Mean, evaluateOutput)
	return nil
}
