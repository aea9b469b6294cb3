package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"rag-chat-bot/internal/config"
	"rag-chat-bot/internal/logger"
)

// TextKey is the metadata key holding a chunk's text in hosted indexes.
const TextKey = "text"

// MaxUpsertBatch bounds the number of vectors sent per upsert call.
const MaxUpsertBatch = 100

var ErrUnknownBackend = errors.New("unknown vector store backend")

// Entry is one chunk as persisted in the index.
type Entry struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata map[string]any
}

// Match is an entry returned by a similarity query, best first.
type Match struct {
	ID       string
	Score    float32
	Text     string
	Metadata map[string]any
}

// Store is an append-only vector index.
type Store interface {
	// Upsert writes entries and returns how many were stored. A failure
	// part way through leaves earlier batches in place.
	Upsert(ctx context.Context, entries []Entry) (int, error)
	// Query returns at most topK entries ordered by descending similarity.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Close(ctx context.Context) error
}

// New opens the backend selected by cfg.VectorStore.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	logger.Info("opening vector store", "backend", cfg.VectorStore)

	switch cfg.VectorStore {
	case config.VectorStorePinecone:
		return NewPineconeStore(ctx, cfg.PineconeAPIKey, cfg.PineconeIndex, cfg.PineconeNamespace)
	case config.VectorStoreMongo:
		client, err := config.ConnectMongoDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.DBName).Collection(cfg.VectorCollection)
		return NewMongoStore(client, coll, cfg.VectorIndexName), nil
	case config.VectorStoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.VectorStore)
	}
}

// batches splits entries into consecutive slices of at most size.
func batches(entries []Entry, size int) [][]Entry {
	var out [][]Entry
	for start := 0; start < len(entries); start += size {
		out = append(out, entries[start:min(start+size, len(entries))])
	}
	return out
}
