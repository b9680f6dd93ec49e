package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"incident-rag/internal/analysis"
	"incident-rag/internal/config"
	"incident-rag/internal/embedding"
	"incident-rag/internal/index"
	"incident-rag/internal/llmservice"
	"incident-rag/internal/rag"
	"incident-rag/internal/retrieve"
	"incident-rag/internal/router"
	"incident-rag/internal/store"
	"incident-rag/internal/timeline"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "incident-rag",
	Short: "Question answering and timeline synthesis over an incident narrative",
	Long: `incident-rag indexes a cybersecurity incident narrative into a vector
store, answers questions grounded in retrieved passages, and synthesizes
chronological timelines by two competing strategies (map-reduce and refine).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

		// Optional: API keys may live in a .env file next to the binary.
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("No .env file loaded")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs/config.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired components the commands share.
type app struct {
	cfg       *config.Config
	store     store.VectorStore
	retriever *retrieve.Retriever
	indexer   *index.Indexer
	qa        *rag.Pipeline
	analyzer  *analysis.Analyzer
	completer llmservice.Completer
}

// buildApp constructs every component from one Config. Nothing here is a
// process-wide singleton; tests wire the same constructors with fakes.
func buildApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	st, err := store.Open(&cfg.Store)
	if err != nil {
		return nil, err
	}
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return nil, err
	}
	completer, err := llmservice.NewClient(&cfg.LLM)
	if err != nil {
		return nil, err
	}

	retriever := retrieve.New(embedder, st)
	qa := rag.New(retriever, completer, cfg.RAG.TopK, cfg.RAG.Temperature)
	analyzer := analysis.New(
		router.New(completer),
		qa,
		timeline.NewMapReduce(completer, cfg.Chunking.Narrative, cfg.Timeline.Workers),
		timeline.NewRefine(completer, cfg.Chunking.Narrative),
		timeline.NewSaver(cfg.Output.Dir),
	)

	return &app{
		cfg:       cfg,
		store:     st,
		retriever: retriever,
		indexer:   index.New(embedder, st, cfg.Chunking.Retrieval),
		qa:        qa,
		analyzer:  analyzer,
		completer: completer,
	}, nil
}
