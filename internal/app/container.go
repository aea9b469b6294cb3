package app

import (
	"context"
	"fmt"

	"rag-chat-bot/internal/ai"
	"rag-chat-bot/internal/config"
	"rag-chat-bot/internal/logger"
	"rag-chat-bot/internal/telemetry"
	"rag-chat-bot/internal/vectorstore"
	"rag-chat-bot/services"
	"rag-chat-bot/utils"

	"github.com/google/generative-ai-go/genai"
	"github.com/redis/go-redis/v9"
)

// Container holds the process-wide clients, built once at startup and
// handed to the HTTP layer.
type Container struct {
	Config    *config.Config
	Metrics   *telemetry.Metrics
	Store     vectorstore.Store
	Ingestion *services.IngestionService
	QA        *services.RetrievalQA

	// Redis is nil unless REDIS_URL is set.
	Redis *redis.Client

	genai *genai.Client
}

// NewContainer connects to Gemini, the vector store and (optionally) Redis.
// Any failure closes what was already opened.
func NewContainer(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics) (_ *Container, err error) {
	c := &Container{Config: cfg, Metrics: metrics}
	defer func() {
		if err != nil {
			c.Close(context.Background())
		}
	}()

	startCtx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	c.genai, err = ai.NewGenaiClient(ctx, cfg.GoogleAPIKey)
	if err != nil {
		return nil, err
	}

	store, err := vectorstore.New(startCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	c.Store = store

	if cfg.RedisURL != "" {
		c.Redis, err = config.NewRedisClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
	}

	embedder := ai.NewGeminiEmbedder(c.genai, cfg.GeminiEmbeddingModel)
	chat := ai.NewGeminiClient(c.genai, cfg.GeminiChatModel, cfg.GeminiRPM, metrics)

	c.Ingestion, err = services.NewIngestionService(
		cfg.UploadDir,
		services.NewPDFLoader(),
		services.NewRecursiveCharacterTextSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		c.Store,
		metrics,
	)
	if err != nil {
		return nil, err
	}

	c.QA = services.NewRetrievalQA(embedder, c.Store, chat, cfg.RetrieverTopK)

	logger.Info("Container ready",
		"vector_store", cfg.VectorStore,
		"embedding_model", cfg.GeminiEmbeddingModel,
		"chat_model", cfg.GeminiChatModel,
		"qa", c.QA.String(),
		"rate_limit", c.Redis != nil,
	)

	return c, nil
}

// Close releases every client that was opened
func (c *Container) Close(ctx context.Context) {
	if c.Store != nil {
		if err := c.Store.Close(ctx); err != nil {
			logger.Error("Failed to close vector store", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis client", "error", err)
		}
	}
	if c.genai != nil {
		if err := c.genai.Close(); err != nil {
			logger.Error("Failed to close Gemini client", "error", err)
		}
	}
}
