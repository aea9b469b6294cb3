package ai

import (
	"context"
	"os"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				FinishReason: genai.FinishReasonStop,
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text("Paris is "), genai.Text("the capital.")},
				},
			},
		},
		UsageMetadata: &genai.UsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 5,
			TotalTokenCount:      17,
		},
	}

	c := completionFromResponse("gemini-2.0-flash", resp)
	assert.Equal(t, "Paris is the capital.", c.Text)
	assert.Equal(t, "gemini-2.0-flash", c.Model)
	assert.Equal(t, genai.FinishReasonStop.String(), c.FinishReason)
	assert.Equal(t, 12, c.PromptTokens)
	assert.Equal(t, 5, c.CandidatesTokens)
	assert.Equal(t, 17, c.TotalTokens)
}

func TestCompletionFromEmptyResponse(t *testing.T) {
	c := completionFromResponse("m", &genai.GenerateContentResponse{})
	assert.Empty(t, c.Text)
	assert.Zero(t, c.TotalTokens)
}

func liveClient(t *testing.T) *genai.Client {
	t.Helper()
	key := os.Getenv("GOOGLE_API_KEY")
	if key == "" {
		t.Skip("GOOGLE_API_KEY not set")
	}
	client, err := NewGenaiClient(context.Background(), key)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestGeminiEmbedderLive(t *testing.T) {
	client := liveClient(t)
	model := os.Getenv("GEMINI_EMBEDDING_MODEL")
	if model == "" {
		t.Skip("GEMINI_EMBEDDING_MODEL not set")
	}

	e := NewGeminiEmbedder(client, model)
	vecs, err := e.EmbedDocuments(context.Background(), []string{"hello world", "second text"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.NotEmpty(t, vecs[0])

	q, err := e.EmbedQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, q, len(vecs[0]))
}

func TestGeminiClientLive(t *testing.T) {
	client := liveClient(t)
	model := os.Getenv("GEMINI_CHAT_MODEL")
	if model == "" {
		t.Skip("GEMINI_CHAT_MODEL not set")
	}

	gc := NewGeminiClient(client, model, 10, nil)
	c, err := gc.Generate(context.Background(), ChatRequest{
		System: "Answer with a single word.",
		Prompt: "What colour is the sky on a clear day?",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.Text)
}
