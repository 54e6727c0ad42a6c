package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/deusflow/mediamon/internal/classify"
)

const DefaultModel = "gpt-4o-mini"

// Client scores sentiment with an OpenAI chat model.
type Client struct {
	client openai.Client
	model  string
}

var _ classify.Backend = (*Client)(nil)

func NewClient(apiKey, model string, opts ...option.RequestOption) *Client {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{client: openai.NewClient(opts...), model: model}
}

func (c *Client) Name() string {
	return "openai"
}

func (c *Client) Polarity(ctx context.Context, text string) (float64, error) {
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a financial news sentiment rater. You reply with one number."),
			openai.UserMessage(classify.Prompt(text)),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(16),
	})
	if err != nil {
		return 0, fmt.Errorf("openai request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return 0, fmt.Errorf("no response from openai")
	}

	return classify.ParseScore(response.Choices[0].Message.Content)
}
