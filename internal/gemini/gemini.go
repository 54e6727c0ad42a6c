package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/mediamon/internal/classify"
)

const DefaultModel = "gemini-1.5-flash"

// Client scores sentiment with a Gemini model.
type Client struct {
	client *genai.Client
	model  string
}

var _ classify.Backend = (*Client)(nil)

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) Name() string {
	return "gemini"
}

func (c *Client) Polarity(ctx context.Context, text string) (float64, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(classify.Prompt(text)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate content: %w", err)
	}
	return scoreResponse(resp)
}

// scoreResponse joins the text parts of the first candidate and parses the score.
func scoreResponse(resp *genai.GenerateContentResponse) (float64, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0, fmt.Errorf("no response from Gemini")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			reply.WriteString(string(t))
		}
	}
	return classify.ParseScore(reply.String())
}
