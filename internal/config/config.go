package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultRetrievalChunkSize = 250
	defaultRetrievalOverlap   = 125
	defaultNarrativeChunkSize = 600
	defaultNarrativeOverlap   = 150
	defaultTopK               = 3
	defaultQATemperature      = 0.3
	defaultMapWorkers         = 4
	defaultCollection         = "cybersecurity-story"
)

// Config is built once in main and passed by reference into every component
// constructor. No component holds process-wide state.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	RAG      RAGConfig      `yaml:"rag"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Timeline TimelineConfig `yaml:"timeline"`
	Store    StoreConfig    `yaml:"store"`
	Output   OutputConfig   `yaml:"output"`
}

// LLMConfig describes one model endpoint, for either completion or embedding.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type RAGConfig struct {
	TopK        int     `yaml:"top_k"`
	Temperature float64 `yaml:"temperature"`
}

// Profile is one chunking tuning: small size with high overlap for retrieval
// granularity, larger size with moderate overlap for narrative coherence.
type Profile struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

type ChunkingConfig struct {
	Retrieval Profile `yaml:"retrieval"`
	Narrative Profile `yaml:"narrative"`
}

type TimelineConfig struct {
	// Workers bounds the fan-out of the map phase. The refine path is a
	// sequential fold and ignores it.
	Workers int `yaml:"workers"`
}

type StoreConfig struct {
	Backend     string `yaml:"backend"` // "chromem" or "pgvector"
	Path        string `yaml:"path"`
	Collection  string `yaml:"collection"`
	InMemory    bool   `yaml:"in_memory"`
	PostgresDSN string `yaml:"postgres_dsn"`
	PostgresKey string `yaml:"postgres_key"`
	Debug       bool   `yaml:"debug"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoadConfig reads the YAML config file and fills in defaults for anything
// the file leaves unset. API keys may also come from the environment
// (OPENAI_API_KEY); the file wins when both are set.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero values with the tuned defaults. Exposed so tests
// can build a Config without a file on disk.
func (c *Config) ApplyDefaults() {
	if c.Chunking.Retrieval.ChunkSize == 0 {
		c.Chunking.Retrieval = Profile{ChunkSize: defaultRetrievalChunkSize, Overlap: defaultRetrievalOverlap}
	}
	if c.Chunking.Narrative.ChunkSize == 0 {
		c.Chunking.Narrative = Profile{ChunkSize: defaultNarrativeChunkSize, Overlap: defaultNarrativeOverlap}
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.Temperature == 0 {
		c.RAG.Temperature = defaultQATemperature
	}
	if c.Timeline.Workers == 0 {
		c.Timeline.Workers = defaultMapWorkers
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "chromem"
	}
	if c.Store.Collection == "" {
		c.Store.Collection = defaultCollection
	}
	if c.Store.Path == "" {
		c.Store.Path = "./chromemdb"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./outputs"
	}
	if c.LLM.Key == "" {
		c.LLM.Key = os.Getenv("OPENAI_API_KEY")
	}
	if c.EmbedLLM.Key == "" {
		c.EmbedLLM.Key = os.Getenv("OPENAI_API_KEY")
	}
}
