package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/jengzang/crowdscan-backend-go/internal/logging"
)

const systemPrompt = "You are a real-time crowd safety assistant. Answer briefly and only from the data provided."

// Config configures the OpenAI-compatible client
type Config struct {
	APIKey      string
	BaseURL     string // empty uses the OpenAI default
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// Client generates narratives through a chat-completion API
type Client struct {
	client *openai.Client
	cfg    Config
	logger zerolog.Logger
}

// NewClient creates a chat-completion backed Requester
func NewClient(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 200
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.5
	}

	return &Client{
		client: openai.NewClientWithConfig(oc),
		cfg:    cfg,
		logger: logging.NewServiceLogger("narrative"),
	}
}

// Generate sends the context as a system message and the prompt as the user message
func (c *Client) Generate(ctx context.Context, structuredContext, prompt string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if strings.TrimSpace(structuredContext) != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Current crowd data:\n" + structuredContext,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		N:           1,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("chat completion returned empty response or choices")
	}

	c.logger.Debug().
		Str("model", resp.Model).
		Int("total_tokens", resp.Usage.TotalTokens).
		Dur("latency", time.Since(start)).
		Msg("Narrative generated")

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
