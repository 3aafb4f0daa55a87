package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env       string
	Server    ServerConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Retriever RetrieverConfig
	Redis     RedisConfig
	Archive   ArchiveConfig
	CacheTTLs CacheTTLConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLMConfig holds the generation model settings. Model identity,
// temperature and max tokens are fixed per process; the chain applies
// them on every call.
type LLMConfig struct {
	Provider    string // "googleai", "openai" or "ollama"
	Model       string
	APIKey      string
	OllamaURL   string
	Temperature float64
	MaxTokens   int
}

type EmbeddingConfig struct {
	Provider  string // "openai" or "ollama"
	Model     string
	APIKey    string
	OllamaURL string
}

type RetrieverConfig struct {
	DocsDir      string
	TopK         int
	ChunkSize    int
	ChunkOverlap int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type ArchiveConfig struct {
	Path string
}

type CacheTTLConfig struct {
	Quiz      string
	Embedding string
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../configs")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
	}

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Env: viper.GetString("env"),
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		LLM: LLMConfig{
			Provider:    viper.GetString("llm.provider"),
			Model:       viper.GetString("llm.model"),
			APIKey:      viper.GetString("llm.api_key"),
			OllamaURL:   viper.GetString("llm.ollama_url"),
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
		},
		Embedding: EmbeddingConfig{
			Provider:  viper.GetString("embedding.provider"),
			Model:     viper.GetString("embedding.model"),
			APIKey:    viper.GetString("embedding.api_key"),
			OllamaURL: viper.GetString("embedding.ollama_url"),
		},
		Retriever: RetrieverConfig{
			DocsDir:      viper.GetString("retriever.docs_dir"),
			TopK:         viper.GetInt("retriever.top_k"),
			ChunkSize:    viper.GetInt("retriever.chunk_size"),
			ChunkOverlap: viper.GetInt("retriever.chunk_overlap"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Archive: ArchiveConfig{
			Path: viper.GetString("archive.path"),
		},
		CacheTTLs: CacheTTLConfig{
			Quiz:      viper.GetString("cache_ttls.quiz"),
			Embedding: viper.GetString("cache_ttls.embedding"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("env"),
		},
	}

	// Override with environment variables if set
	if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" && config.LLM.Provider == "googleai" {
		config.LLM.APIKey = apiKey
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.LLM.Provider == "openai" {
			config.LLM.APIKey = apiKey
		}
		if config.Embedding.Provider == "openai" {
			config.Embedding.APIKey = apiKey
		}
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if archivePath := os.Getenv("ARCHIVE_PATH"); archivePath != "" {
		config.Archive.Path = archivePath
	}
	if docsDir := os.Getenv("DOCS_DIR"); docsDir != "" {
		config.Retriever.DocsDir = docsDir
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("env", "development")
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("llm.provider", "googleai")
	viper.SetDefault("llm.model", "gemini-pro")
	viper.SetDefault("llm.temperature", 0.8)
	viper.SetDefault("llm.max_tokens", 500)
	viper.SetDefault("embedding.provider", "ollama")
	viper.SetDefault("embedding.model", "nomic-embed-text")
	viper.SetDefault("embedding.ollama_url", "http://localhost:11434")
	viper.SetDefault("retriever.top_k", 4)
	viper.SetDefault("retriever.chunk_size", 500)
	viper.SetDefault("retriever.chunk_overlap", 50)
	viper.SetDefault("archive.path", "quizify.db")
	viper.SetDefault("cache_ttls.quiz", "1h")
	viper.SetDefault("cache_ttls.embedding", "168h")
	viper.SetDefault("logger.level", "info")
}

// ParseTTLStringOrDefault parses a duration string, falling back to the
// given default when the string is empty or malformed.
func (c *Config) ParseTTLStringOrDefault(ttlStr string, defaultTTL time.Duration) time.Duration {
	if ttlStr == "" {
		return defaultTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return defaultTTL
	}
	return ttl
}
