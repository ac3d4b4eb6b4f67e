// Package narrative writes a short comparative summary of two queries' coverage
// with an LLM and caches it in Redis.
package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"newslens/internal/cache"
	"newslens/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	CacheTTL  = time.Hour
	maxTokens = 1000
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Request describes the two article batches being compared.
type Request struct {
	Query1    string
	From1     string
	To1       string
	Query2    string
	From2     string
	To2       string
	Articles1 []domain.Article
	Articles2 []domain.Article
}

// Digest identifies a request by its queries and date ranges.
func (r Request) Digest() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{r.Query1, r.Query2, r.From1, r.To1, r.From2, r.To2}, "\x1f")))
	return hex.EncodeToString(sum[:])
}

type Service struct {
	tracer trace.Tracer
	llm    LLMClient
	redis  RedisClient
	model  string
}

func NewService(tracer trace.Tracer, llm LLMClient, redisClient RedisClient, model string) *Service {
	return &Service{tracer: tracer, llm: llm, redis: redisClient, model: model}
}

// Generate returns the comparative narrative for req. Single-query requests have
// no narrative and return "".
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	if req.Query2 == "" {
		return "", nil
	}

	ctx, span := s.tracer.Start(ctx, "narrative.generate")
	defer span.End()

	key := cache.NarrativeKey(req.Digest())
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Result()
		switch {
		case err == nil:
			span.SetAttributes(attribute.Bool("narrative.cache_hit", true))
			return cached, nil
		case !errors.Is(err, redis.Nil):
			log.Printf("narrative cache read error: %v", err)
		}
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return "", err
	}
	text, err := s.callLLM(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("narrative unavailable: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, text, CacheTTL).Err(); err != nil {
			log.Printf("narrative cache write error: %v", err)
		}
	}
	return text, nil
}

func (s *Service) callLLM(ctx context.Context, prompt string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "narrative.llm-call")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", s.model))

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
