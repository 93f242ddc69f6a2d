package ai

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Client wraps an OpenAI compatible chat endpoint (Azure OpenAI in production).
// A zero-configured client is valid and reports itself disabled.
type Client struct {
	api        *openai.Client
	deployment string
	log        *slog.Logger
}

// NewClient returns a disabled client when endpoint or apiKey is empty.
func NewClient(endpoint, apiKey, deployment string, log *slog.Logger) *Client {
	c := &Client{deployment: deployment, log: log}
	if deployment == "" {
		c.deployment = "gpt-35-turbo"
	}

	if endpoint == "" || apiKey == "" {
		log.Info("AI service disabled - Azure OpenAI credentials not provided",
			"required", "AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY")
		return c
	}

	api := openai.NewClient(
		option.WithBaseURL(endpoint),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(1),
	)
	c.api = &api
	log.Info("AI service initialized", "deployment", c.deployment)
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && c.api != nil
}

// Complete runs a single system+user chat turn and returns the assistant text.
func (c *Client) Complete(ctx context.Context, systemMessage, userMessage string) (string, error) {
	if !c.Enabled() {
		return "", &AIError{Message: "AI service is not enabled"}
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(800),
		Temperature: openai.Float(0.5),
	})
	if err != nil {
		c.log.Warn("AI API error", "error", err)
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}

	return resp.Choices[0].Message.Content, nil
}

type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AIError) Unwrap() error {
	return e.Cause
}
