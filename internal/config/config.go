package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Vector store backends selectable through VECTOR_STORE.
const (
	VectorStorePinecone = "pinecone"
	VectorStoreMongo    = "mongo"
	VectorStoreMemory   = "memory"
)

type Config struct {
	Host    string
	Port    string
	GinMode string

	// Gemini
	GoogleAPIKey         string
	GeminiEmbeddingModel string
	GeminiChatModel      string
	GeminiRPM            int

	// Vector store
	VectorStore       string
	PineconeAPIKey    string
	PineconeIndex     string
	PineconeNamespace string

	// MongoDB Atlas Vector Search
	MongoURI         string
	DBName           string
	VectorCollection string
	VectorIndexName  string

	// Ingestion
	UploadDir     string
	ChunkSize     int
	ChunkOverlap  int
	RetrieverTopK int
	MaxUploadSize int64

	// CORS
	CORSOrigins []string

	// Redis rate limiting (disabled when RedisURL is empty)
	RedisURL        string
	RedisPassword   string
	RedisDB         int
	RateLimitReqs   int
	RateLimitWindow int

	// Tracing (exporter disabled when OTLPEndpoint is empty)
	ServiceName    string
	OTLPEndpoint   string
	OTelSampleRate float64
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Host:    getEnv("HOST", "0.0.0.0"),
		Port:    getEnv("PORT", "8000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		GoogleAPIKey:         getEnv("GOOGLE_API_KEY", ""),
		GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", ""),
		GeminiChatModel:      getEnv("GEMINI_CHAT_MODEL", ""),
		GeminiRPM:            getEnvInt("GEMINI_RPM", 60),

		VectorStore:       getEnv("VECTOR_STORE", VectorStorePinecone),
		PineconeAPIKey:    getEnv("PINECONE_API_KEY", ""),
		PineconeIndex:     getEnv("PINECONE_INDEX", ""),
		PineconeNamespace: getEnv("PINECONE_NAMESPACE", ""),

		MongoURI:         getEnv("MONGO_URI", ""),
		DBName:           getEnv("DB_NAME", "rag_chat_bot"),
		VectorCollection: getEnv("MONGODB_VECTOR_COLLECTION", "pdf_chunks"),
		VectorIndexName:  getEnv("MONGODB_VECTOR_INDEX", "pdf_chunks_vector"),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		ChunkSize:     getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 100),
		RetrieverTopK: getEnvInt("RETRIEVER_TOP_K", 3),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 0),

		CORSOrigins: getEnvList("CORS_ORIGINS", "*"),

		RedisURL:        getEnv("REDIS_URL", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		ServiceName:    getEnv("OTEL_SERVICE_NAME", "rag-chat-bot"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelSampleRate: getEnvFloat64("OTEL_SAMPLE_RATIO", 1.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the fields every backend needs at startup.
func (c *Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required - set it in .env file")
	}

	if c.GeminiEmbeddingModel == "" {
		return fmt.Errorf("GEMINI_EMBEDDING_MODEL is required - set it in .env file")
	}

	if c.GeminiChatModel == "" {
		return fmt.Errorf("GEMINI_CHAT_MODEL is required - set it in .env file")
	}

	switch c.VectorStore {
	case VectorStorePinecone:
		if c.PineconeAPIKey == "" {
			return fmt.Errorf("PINECONE_API_KEY is required - set it in .env file")
		}
		if c.PineconeIndex == "" {
			return fmt.Errorf("PINECONE_INDEX is required - set it in .env file")
		}
	case VectorStoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when VECTOR_STORE=mongo")
		}
	case VectorStoreMemory:
	default:
		return fmt.Errorf("unknown VECTOR_STORE %q (want pinecone, mongo or memory)", c.VectorStore)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}

	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}

	if c.RetrieverTopK <= 0 {
		return fmt.Errorf("RETRIEVER_TOP_K must be positive, got %d", c.RetrieverTopK)
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
