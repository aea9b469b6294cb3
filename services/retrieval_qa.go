package services

import (
	"context"
	"fmt"
	"strings"

	"rag-chat-bot/internal/ai"
	"rag-chat-bot/internal/logger"
	"rag-chat-bot/internal/vectorstore"
	"rag-chat-bot/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// QASystemPrompt frames the retrieved chunks for the chat model. The context
// placeholder is replaced with the chunk texts separated by blank lines.
const QASystemPrompt = "Use the following pieces of context to answer the user's question. \n" +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n" +
	"----------------\n" +
	"{context}"

const contextSeparator = "\n\n"

// RetrievalQA answers a query from the top-k most similar chunks
type RetrievalQA struct {
	embedder ai.Embedder
	store    vectorstore.Store
	llm      ai.ChatModel
	topK     int
}

// NewRetrievalQA creates a retrieval QA chain
func NewRetrievalQA(embedder ai.Embedder, store vectorstore.Store, llm ai.ChatModel, topK int) *RetrievalQA {
	return &RetrievalQA{
		embedder: embedder,
		store:    store,
		llm:      llm,
		topK:     topK,
	}
}

// Retrieve embeds the query and returns the nearest chunks, most similar first
func (qa *RetrievalQA) Retrieve(ctx context.Context, query string) ([]models.Document, error) {
	vector, err := qa.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, stageErr(StageEmbedding, err)
	}

	matches, err := qa.store.Query(ctx, vector, qa.topK)
	if err != nil {
		return nil, stageErr(StageVectorStore, err)
	}

	docs := make([]models.Document, 0, len(matches))
	for _, m := range matches {
		md := make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			md[k] = v
		}
		docs = append(docs, models.Document{PageContent: m.Text, Metadata: md})
	}
	return docs, nil
}

// Invoke retrieves context for query and asks the chat model to answer it.
// An empty retrieval still reaches the model, with an empty context.
func (qa *RetrievalQA) Invoke(ctx context.Context, query string, withSources bool) (*models.QAResult, error) {
	ctx, span := otel.Tracer("retrieval-qa").Start(ctx, "retrieval_qa.invoke")
	defer span.End()

	docs, err := qa.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("retrieval.documents", len(docs)))

	completion, err := qa.llm.Generate(ctx, ai.ChatRequest{
		System: BuildSystemPrompt(docs),
		Prompt: query,
	})
	if err != nil {
		return nil, stageErr(StageGeneration, err)
	}

	logger.Debug("Query answered",
		"documents", len(docs),
		"model", completion.Model,
		"total_tokens", completion.TotalTokens,
	)

	result := &models.QAResult{
		Query:  query,
		Result: completion.Text,
	}
	if withSources {
		result.SourceDocuments = docs
	}
	return result, nil
}

// BuildSystemPrompt stuffs every document into the QA system prompt
func BuildSystemPrompt(docs []models.Document) string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.PageContent
	}
	return strings.Replace(QASystemPrompt, "{context}", strings.Join(texts, contextSeparator), 1)
}

// String describes the chain configuration for startup logs
func (qa *RetrievalQA) String() string {
	return fmt.Sprintf("RetrievalQA(top_k=%d)", qa.topK)
}
