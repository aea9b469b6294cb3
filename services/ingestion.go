package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"rag-chat-bot/internal/ai"
	"rag-chat-bot/internal/logger"
	"rag-chat-bot/internal/telemetry"
	"rag-chat-bot/internal/vectorstore"
	"rag-chat-bot/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// IngestionService saves uploaded files and indexes their chunks
type IngestionService struct {
	uploadDir string
	loader    DocumentLoader
	splitter  *RecursiveCharacterTextSplitter
	embedder  ai.Embedder
	store     vectorstore.Store
	metrics   *telemetry.Metrics
}

// NewIngestionService creates the upload directory and returns a service writing into it
func NewIngestionService(
	uploadDir string,
	loader DocumentLoader,
	splitter *RecursiveCharacterTextSplitter,
	embedder ai.Embedder,
	store vectorstore.Store,
	metrics *telemetry.Metrics,
) (*IngestionService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &IngestionService{
		uploadDir: uploadDir,
		loader:    loader,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		metrics:   metrics,
	}, nil
}

// Ingest stores the upload under its base name, then loads, splits, embeds
// and upserts it. The result echoes filename exactly as the client sent it. Nothing is rolled back on failure: the saved file
// and any vectors already upserted stay where they are.
func (s *IngestionService) Ingest(ctx context.Context, filename string, src io.Reader) (*models.IngestResult, error) {
	ctx, span := otel.Tracer("ingestion").Start(ctx, "ingestion.ingest")
	defer span.End()

	start := time.Now()
	status := "failed"
	stored := 0
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordPDFProcessing(time.Since(start).Seconds(), status, stored)
		}
	}()

	// Step 1: Save the upload
	path, err := s.SaveUpload(filename, src)
	if err != nil {
		return nil, stageErr(StageFileSave, err)
	}
	span.SetAttributes(attribute.String("file.path", path))

	// Step 2: Index it
	result, err := s.IndexFile(ctx, path)
	if err != nil {
		span.SetAttributes(attribute.Bool("ingestion.error", true))
		logger.Error("Ingestion failed", "file", path, "error", err)
		return nil, err
	}

	result.Filename = filename
	status = "completed"
	stored = len(result.IDs)
	return result, nil
}

// SaveUpload writes src to the upload directory, overwriting any file with the same name
func (s *IngestionService) SaveUpload(filename string, src io.Reader) (string, error) {
	if src == nil {
		return "", ErrNoFile
	}

	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	path := filepath.Join(s.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}

// IndexFile runs the load, split, embed and upsert stages for a file already on disk
func (s *IngestionService) IndexFile(ctx context.Context, path string) (*models.IngestResult, error) {
	pages, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, stageErr(StagePDFProcessing, err)
	}

	chunks := s.splitter.SplitDocuments(pages)
	logger.Info("Document split", "file", path, "pages", len(pages), "chunks", len(chunks))

	result := &models.IngestResult{
		FilePath: path,
		Pages:    len(pages),
		IDs:      []string{},
	}
	if len(chunks) == 0 {
		return result, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.PageContent
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, stageErr(StageEmbedding, err)
	}
	if len(vectors) != len(chunks) {
		return nil, stageErr(StageEmbedding,
			fmt.Errorf("got %d embeddings for %d chunks", len(vectors), len(chunks)))
	}

	entries := make([]vectorstore.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = vectorstore.Entry{
			ID:       uuid.NewString(),
			Vector:   vectors[i],
			Text:     c.PageContent,
			Metadata: c.Metadata,
		}
	}

	n, err := s.store.Upsert(ctx, entries)
	if err != nil {
		return nil, stageErr(StageVectorStore, err)
	}
	if n != len(entries) {
		return nil, stageErr(StageVectorStore,
			fmt.Errorf("upserted %d of %d vectors", n, len(entries)))
	}

	for _, e := range entries {
		result.IDs = append(result.IDs, e.ID)
	}
	logger.Info("Document indexed", "file", path, "vectors", n)

	return result, nil
}
