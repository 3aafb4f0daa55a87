package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizify/internal/adapter"
	"quizify/internal/adapter/embedding"
	"quizify/internal/adapter/llmclient"
	"quizify/internal/adapter/retriever"
	"quizify/internal/cache"
	"quizify/internal/config"
	"quizify/internal/domain"
	"quizify/internal/handler"
	"quizify/internal/ingest"
	"quizify/internal/logger"
	"quizify/internal/middleware"
	"quizify/internal/quizgen"
	"quizify/internal/repository"
	"quizify/internal/service"
	"quizify/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer func() { _ = logger.Sync() }()

	// Redis cache is optional; without it generation runs uncached.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		appLogger.Warn("Redis address not configured, running without cache")
	}

	embedder, err := newEmbeddingService(cfg, cacheAdapter)
	if err != nil {
		appLogger.Fatal("Failed to create embedding service", zap.Error(err))
	}

	collection, err := retriever.NewMemoryCollection(embedder, cfg.Retriever.TopK)
	if err != nil {
		appLogger.Fatal("Failed to create document collection", zap.Error(err))
	}

	processor := ingest.NewProcessor(cfg.Retriever.ChunkSize, cfg.Retriever.ChunkOverlap)
	ctx := context.Background()
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

	db, err := repository.OpenSQLite(cfg.Archive.Path)
	if err != nil {
		appLogger.Fatal("Failed to open archive database", zap.Error(err))
	}
	defer db.Close()

	archive, err := repository.NewQuizArchiveAdapter(db)
	if err != nil {
		appLogger.Fatal("Failed to initialize quiz archive", zap.Error(err))
	}

	generatorFactory := func(topic string, numQuestions int) (domain.QuizGenerator, error) {
		return quizgen.NewGenerator(topic, numQuestions, chain)
	}

	quizService := service.NewQuizService(generatorFactory, archive, cacheAdapter, cfg)
	quizHandler := handler.NewQuizHandler(quizService, validation.NewValidator())

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if cacheAdapter != nil {
			if err := cacheAdapter.Ping(c.Context()); err != nil {
				return fiber.NewError(fiber.StatusServiceUnavailable, "cache unavailable")
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Post("/quizzes", quizHandler.GenerateQuiz)
	api.Get("/quizzes/:id", quizHandler.GetQuiz)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("Starting server", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
}

func newEmbeddingService(cfg *config.Config, cacheAdapter domain.Cache) (domain.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbeddingService(cfg.Embedding.APIKey, cfg.Embedding.Model, cacheAdapter, cfg)
	case "ollama":
		return embedding.NewOllamaEmbeddingService(cfg.Embedding.OllamaURL, cfg.Embedding.Model)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}
}
