package llmclient

import (
	"context"
	"fmt"

	"quizify/internal/config"
	"quizify/internal/quizgen"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModelFactory returns a quizgen.ModelFactory for the configured
// provider. The factory itself performs no I/O; client creation and
// auth happen when the chain first invokes it.
func NewModelFactory(cfg config.LLMConfig) (quizgen.ModelFactory, error) {
	switch cfg.Provider {
	case "googleai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai API key cannot be empty")
		}
		return func(ctx context.Context) (llms.Model, error) {
			return googleai.New(ctx,
				googleai.WithAPIKey(cfg.APIKey),
				googleai.WithDefaultModel(cfg.Model),
			)
		}, nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		return func(ctx context.Context) (llms.Model, error) {
			return openai.New(
				openai.WithToken(cfg.APIKey),
				openai.WithModel(cfg.Model),
			)
		}, nil
	case "ollama":
		if cfg.OllamaURL == "" {
			return nil, fmt.Errorf("ollama server URL cannot be empty")
		}
		return func(ctx context.Context) (llms.Model, error) {
			return ollama.New(
				ollama.WithModel(cfg.Model),
				ollama.WithServerURL(cfg.OllamaURL),
			)
		}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
