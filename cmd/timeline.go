package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"incident-rag/internal/analysis"
	"incident-rag/internal/document"
	"incident-rag/internal/normalize"
	"incident-rag/internal/timeline"
)

var timelineMethod string

var timelineCmd = &cobra.Command{
	Use:   "timeline [document]",
	Short: "Synthesize a chronological timeline of the document",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().StringVarP(&timelineMethod, "method", "m", "map_reduce", "synthesis method: map_reduce or refine")
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}

	var synth analysis.Synthesizer
	switch timelineMethod {
	case "map_reduce":
		synth = timeline.NewMapReduce(a.completer, a.cfg.Chunking.Narrative, a.cfg.Timeline.Workers)
	case "refine":
		synth = timeline.NewRefine(a.completer, a.cfg.Chunking.Narrative)
	default:
		return fmt.Errorf("unknown method: %s", timelineMethod)
	}

	raw, err := synth.Synthesize(context.Background(), doc)
	if err != nil {
		return err
	}
	cleaned := normalize.Normalize(raw)

	saver := timeline.NewSaver(a.cfg.Output.Dir)
	path, err := saver.Save(cleaned, doc.Source, timelineMethod)
	if err != nil {
		return err
	}

	cmd.Printf("Timeline saved to %s:\n\n%s\n", path, cleaned)
	return nil
}
