package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig configures an OpenAI-compatible backend
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIBackend calls any OpenAI-compatible chat completions endpoint
type OpenAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend creates the backend with SDK retries disabled.
// It returns ErrNoCredential without an API key.
func NewOpenAIBackend(cfg OpenAIConfig) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredential
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIBackend{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (b *OpenAIBackend) Name() string {
	return "openai"
}

func (b *OpenAIBackend) Chat(ctx context.Context, system string, history []Message, message string) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(system))
	for _, m := range history {
		if m.Role == RoleUser {
			msgs = append(msgs, openai.UserMessage(m.Content))
		} else {
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(message))
	return b.complete(ctx, msgs)
}

func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return b.complete(ctx, []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)})
}

func (b *OpenAIBackend) complete(ctx context.Context, msgs []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(b.model),
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
