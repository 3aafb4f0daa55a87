// Command quizgen generates one quiz from the command line: it ingests
// a documents directory, builds the vector collection, runs the
// generation loop and prints the finished quiz as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"quizify/internal/adapter/embedding"
	"quizify/internal/adapter/llmclient"
	"quizify/internal/adapter/retriever"
	"quizify/internal/config"
	"quizify/internal/domain"
	"quizify/internal/dto"
	"quizify/internal/ingest"
	"quizify/internal/logger"
	"quizify/internal/quizgen"
	"quizify/internal/service"

	"go.uber.org/zap"
)

func main() {
	topic := flag.String("topic", "", "quiz topic (defaults to General Knowledge)")
	numQuestions := flag.Int("n", 1, "number of questions to generate (1-10)")
	docsDir := flag.String("docs", "", "directory of .txt/.md documents to ingest (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *docsDir != "" {
		cfg.Retriever.DocsDir = *docsDir
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	embedder, err := newEmbeddingService(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create embedding service", zap.Error(err))
	}

	collection, err := retriever.NewMemoryCollection(embedder, cfg.Retriever.TopK)
	if err != nil {
		appLogger.Fatal("Failed to create document collection", zap.Error(err))
	}

	processor := ingest.NewProcessor(cfg.Retriever.ChunkSize, cfg.Retriever.ChunkOverlap)
	chunks, err := processor.LoadDirectory(ctx, cfg.Retriever.DocsDir)
	if err != nil {
		appLogger.Fatal("Failed to ingest documents", zap.Error(err))
	}
	if len(chunks) == 0 {
		appLogger.Fatal("No document chunks ingested", zap.String("docs_dir", cfg.Retriever.DocsDir))
	}
	if err := collection.AddDocuments(ctx, chunks); err != nil {
		appLogger.Fatal("Failed to build document collection", zap.Error(err))
	}

	modelFactory, err := llmclient.NewModelFactory(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create model factory", zap.Error(err))
	}

	chain, err := quizgen.NewChain(collection, modelFactory,
		quizgen.WithTemperature(cfg.LLM.Temperature),
		quizgen.WithMaxTokens(cfg.LLM.MaxTokens),
	)
	if err != nil {
		appLogger.Fatal("Failed to create question chain", zap.Error(err))
	}

	generatorFactory := func(topic string, numQuestions int) (domain.QuizGenerator, error) {
		return quizgen.NewGenerator(topic, numQuestions, chain)
	}

	// No cache and no archive for one-shot CLI runs.
	quizService := service.NewQuizService(generatorFactory, nil, nil, cfg)

	resp, err := quizService.GenerateQuiz(ctx, &dto.GenerateQuizRequest{
		Topic:        *topic,
		NumQuestions: *numQuestions,
	})
	if err != nil {
		appLogger.Fatal("Quiz generation failed", zap.Error(err))
	}

	if resp.NumGenerated < resp.NumRequested {
		appLogger.Warn("Generated fewer questions than requested",
			zap.Int("requested", resp.NumRequested),
			zap.Int("generated", resp.NumGenerated))
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(resp); err != nil {
		appLogger.Fatal("Failed to encode quiz", zap.Error(err))
	}
}

func newEmbeddingService(cfg *config.Config) (domain.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbeddingService(cfg.Embedding.APIKey, cfg.Embedding.Model, nil, cfg)
	case "ollama":
		return embedding.NewOllamaEmbeddingService(cfg.Embedding.OllamaURL, cfg.Embedding.Model)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}
}
