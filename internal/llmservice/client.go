package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"incident-rag/internal/config"
)

// Completer is the completion service as the pipelines see it: one prompt
// in, generated text out. Stateless and side-effect-free from the caller's
// point of view. Tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Client wraps a langchaingo model behind the Completer interface. Built
// once from config and shared by the QA path, both synthesizers, and the
// router.
type Client struct {
	model llms.Model
}

// NewClient builds the completion client for the configured provider.
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	switch cfg.Provider {
	case "", "openai":
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM: %w", err)
		}
		return &Client{model: llm}, nil
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM: %w", err)
		}
		return &Client{model: llm}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

// Complete sends one prompt and blocks until the service responds. No
// timeout or retry; a failure propagates to the caller as is.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return out, nil
}
