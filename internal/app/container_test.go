package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rag-chat-bot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainerWithMemoryStore(t *testing.T) {
	cfg := &config.Config{
		GoogleAPIKey:         "test-key",
		GeminiEmbeddingModel: "models/text-embedding-004",
		GeminiChatModel:      "gemini-2.0-flash",
		GeminiRPM:            60,
		VectorStore:          config.VectorStoreMemory,
		UploadDir:            filepath.Join(t.TempDir(), "uploads"),
		ChunkSize:            1000,
		ChunkOverlap:         100,
		RetrieverTopK:        3,
	}

	c, err := NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close(context.Background())

	assert.NotNil(t, c.Store)
	assert.NotNil(t, c.Ingestion)
	assert.NotNil(t, c.QA)
	assert.Nil(t, c.Redis)

	_, err = os.Stat(cfg.UploadDir)
	assert.NoError(t, err)
}

func TestNewContainerUnknownBackend(t *testing.T) {
	cfg := &config.Config{
		GoogleAPIKey: "test-key",
		VectorStore:  "faiss",
		UploadDir:    t.TempDir(),
	}

	_, err := NewContainer(context.Background(), cfg, nil)
	assert.Error(t, err)
}
