package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini backend
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for tests and proxies
}

// GeminiBackend calls Google Gemini through the genai SDK
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a Gemini backend. It returns ErrNoCredential without an API key.
func NewGeminiBackend(ctx context.Context, cfg GeminiConfig) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredential
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

func (b *GeminiBackend) Name() string {
	return "gemini"
}

// Chat sends history plus the new message with system as the system instruction
func (b *GeminiBackend) Chat(ctx context.Context, system string, history []Message, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		var role genai.Role = genai.RoleModel
		if m.Role == RoleUser {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	res, err := b.client.Models.GenerateContent(ctx, b.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return res.Text(), nil
}

// Generate sends a single-shot prompt
func (b *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return res.Text(), nil
}
