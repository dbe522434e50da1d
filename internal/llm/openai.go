package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return NewOpenAIWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAIWithConfig allows pointing the client at a different base URL.
func NewOpenAIWithConfig(cfg openai.ClientConfig, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) Close() error {
	return nil
}
