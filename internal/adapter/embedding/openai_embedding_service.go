package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"quizify/internal/cache"
	"quizify/internal/config"
	"quizify/internal/domain"
	"quizify/internal/logger"

	"github.com/tmc/langchaingo/embeddings"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultEmbeddingTTL = 168 * time.Hour // 7 days

// OpenAIEmbeddingService implements the domain.EmbeddingService
// interface using OpenAI, with a cache in front of the API. Concurrent
// requests for the same text are collapsed through singleflight.
type OpenAIEmbeddingService struct {
	embedder embeddings.Embedder
	cache    domain.Cache
	config   *config.Config
	sfGroup  singleflight.Group
}

// NewOpenAIEmbeddingService creates a new OpenAIEmbeddingService. The
// cache may be nil, in which case every call hits the API.
func NewOpenAIEmbeddingService(apiKey, modelName string, cache domain.Cache, cfg *config.Config) (*OpenAIEmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = "text-embedding-ada-002" // Default model
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from OpenAI LLM: %w", err)
	}

	return &OpenAIEmbeddingService{
		embedder: embedder,
		cache:    cache,
		config:   cfg,
	}, nil
}

// Generate creates an embedding for the given text using the OpenAI embedder.
func (s *OpenAIEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	textHash := hashString(text)
	cacheKey := cache.GenerateCacheKey("embedding", "openai", textHash)

	if s.cache != nil {
		cachedData, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			var embedding []float32
			decoder := gob.NewDecoder(bytes.NewReader([]byte(cachedData)))
			if errDecode := decoder.Decode(&embedding); errDecode == nil {
				return embedding, nil
			}
			logger.Get().Warn("Failed to decode cached embedding, regenerating",
				zap.String("cacheKey", cacheKey))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Error("Failed to read embedding cache",
				zap.Error(err), zap.String("cacheKey", cacheKey))
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		rawEmbedding, fetchErr := s.embedder.EmbedQuery(ctx, text)
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to generate embedding using OpenAI: %w", fetchErr)
		}
		if rawEmbedding == nil {
			return nil, fmt.Errorf("received nil embedding from OpenAI without error")
		}

		result := make([]float32, len(rawEmbedding))
		for i, v := range rawEmbedding {
			result[i] = float32(v)
		}

		if s.cache != nil {
			var buffer bytes.Buffer
			if errEncode := gob.NewEncoder(&buffer).Encode(result); errEncode != nil {
				// Return the data even if caching fails.
				return result, nil
			}

			cacheTTL := defaultEmbeddingTTL
			if s.config != nil && s.config.CacheTTLs.Embedding != "" {
				cacheTTL = s.config.ParseTTLStringOrDefault(s.config.CacheTTLs.Embedding, defaultEmbeddingTTL)
			}

			if errSet := s.cache.Set(ctx, cacheKey, buffer.String(), cacheTTL); errSet != nil {
				logger.Get().Error("Failed to cache embedding",
					zap.Error(errSet), zap.String("cacheKey", cacheKey))
			}
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	if embedding, ok := res.([]float32); ok {
		return embedding, nil
	}
	return nil, fmt.Errorf("unexpected type from singleflight.Do for openai embedding: %T", res)
}

var _ domain.EmbeddingService = (*OpenAIEmbeddingService)(nil)
