// ABOUTME: OpenAI client for embeddings and text generation
// ABOUTME: Uses text-embedding-3-small for embeddings, gpt-4o-mini for titles and analysis (configurable)
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harper/rulekeeper/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// DimensionForModel returns the vector size the named embedding model
// produces, or 0 for models it does not know about. Callers use 0 to
// disable dimension checks rather than reject vectors from a newer model.
func DimensionForModel(model string) int {
	switch model {
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	case "text-embedding-3-large":
		return 3072
	default:
		return 0
	}
}

// titleWordLimit caps generated titles at a display-friendly length.
const titleWordLimit = 10

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("RULES_OPENAI_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      chatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// Client wraps the OpenAI API client with retry logic
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a new OpenAI client with the given API key using default configuration
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

// NewClientWithConfig creates a new OpenAI client with custom configuration
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	embeddingModel := config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	return &Client{
		client:         openai.NewClient(config.APIKey),
		chatModel:      config.ChatModel,
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		timeout:        timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// GenerateEmbedding generates a 1536-dimensional embedding vector for the text
func (c *Client) GenerateEmbedding(text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.Backoff(c.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}

		cancel()
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}

// Complete sends a system + user prompt pair to the chat model and returns
// the raw reply text. Callers must parse the reply defensively; no structure
// is guaranteed.
func (c *Client) Complete(systemPrompt, userPrompt string, temperature float32) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.Backoff(c.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			Temperature: temperature,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		cancel()
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("completion failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// GenerateTitle produces a short human-readable label for a rule's context
func (c *Client) GenerateTitle(ruleContext string) (string, error) {
	systemPrompt := "You are a titling assistant. Generate a concise, descriptive title (max 10 words) for the text you are given. Reply with the title only, nothing else."
	userPrompt := fmt.Sprintf("Generate a title for this rule:\n\n%s", ruleContext)

	reply, err := c.Complete(systemPrompt, userPrompt, 0.3)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(strings.Trim(strings.TrimSpace(reply), `"`))
	if title == "" {
		return "", fmt.Errorf("empty title returned")
	}

	words := strings.Fields(title)
	if len(words) > titleWordLimit {
		title = strings.Join(words[:titleWordLimit], " ")
	}

	return title, nil
}
