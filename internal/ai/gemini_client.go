package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rag-chat-bot/internal/logger"
	"rag-chat-bot/internal/telemetry"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// ErrModelUnavailable is returned while the chat circuit breaker is open.
var ErrModelUnavailable = errors.New("chat model unavailable: circuit breaker open")

// ChatRequest is a single-turn prompt with an optional system instruction.
type ChatRequest struct {
	System string
	Prompt string
}

// Completion is the text the model produced plus usage counters.
type Completion struct {
	Text             string
	Model            string
	FinishReason     string
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
}

// ChatModel answers a single prompt.
type ChatModel interface {
	Generate(ctx context.Context, req ChatRequest) (*Completion, error)
}

// NewGenaiClient opens the shared Gemini API client.
func NewGenaiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// GeminiClient is the chat model, guarded by a rate limiter and a circuit breaker.
type GeminiClient struct {
	client      *genai.Client
	model       string
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
	metrics     *telemetry.Metrics
}

// NewGeminiClient wraps client for chat completions against model. rpm caps
// requests per minute; metrics may be nil.
func NewGeminiClient(client *genai.Client, model string, rpm int, metrics *telemetry.Metrics) *GeminiClient {
	if rpm <= 0 {
		rpm = 60
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 3 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		// A caller hanging up says nothing about the health of the API.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			if metrics != nil {
				metrics.RecordCircuitBreakerState(name, to.String())
			}
		},
	})

	return &GeminiClient{
		client:      client,
		model:       model,
		breaker:     breaker,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), max(1, rpm/10)),
		metrics:     metrics,
	}
}

// Generate sends req to the chat model. Failures are returned as-is; nothing
// is retried and no canned answer is substituted.
func (gc *GeminiClient) Generate(ctx context.Context, req ChatRequest) (*Completion, error) {
	ctx, span := otel.Tracer("gemini-client").Start(ctx, "gemini.generate_content")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", gc.model),
		attribute.Int("gemini.prompt_chars", len(req.System)+len(req.Prompt)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return nil, err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(gc.model)
		model.SetTemperature(0.7)
		if req.System != "" {
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(req.System)},
			}
		}
		return model.GenerateContent(ctx, genai.Text(req.Prompt))
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
			return nil, ErrModelUnavailable
		}
		return nil, err
	}

	completion := completionFromResponse(gc.model, result.(*genai.GenerateContentResponse))
	span.SetAttributes(
		attribute.Int("gemini.total_tokens", completion.TotalTokens),
		attribute.String("gemini.finish_reason", completion.FinishReason),
	)
	if gc.metrics != nil {
		gc.metrics.RecordTokensUsed(int64(completion.TotalTokens), gc.model)
	}

	return completion, nil
}

func completionFromResponse(model string, resp *genai.GenerateContentResponse) *Completion {
	c := &Completion{Model: model}

	if resp.UsageMetadata != nil {
		c.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		c.CandidatesTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		c.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return c
	}

	cand := resp.Candidates[0]
	c.FinishReason = cand.FinishReason.String()
	if cand.Content == nil {
		return c
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	c.Text = text.String()

	return c
}
