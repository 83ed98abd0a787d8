package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaBackend talks to a local Ollama server
type OllamaBackend struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaBackend creates a new Ollama backend
func NewOllamaBackend(baseURL, model string) *OllamaBackend {
	return &OllamaBackend{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ChatMessage is one message in an /api/chat request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body for /api/chat
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// ChatResponse is the response from /api/chat
type ChatResponse struct {
	Model   string      `json:"model"`
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// GenerateRequest is the request body for /api/generate
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// GenerateResponse is the response from /api/generate
type GenerateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}

func (c *OllamaBackend) Name() string {
	return "ollama"
}

// Chat sends the system prompt, history and new message to /api/chat
func (c *OllamaBackend) Chat(ctx context.Context, system string, history []Message, message string) (string, error) {
	messages := make([]ChatMessage, 0, len(history)+2)
	if system != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: system})
	}
	for _, m := range history {
		role := "assistant"
		if m.Role == RoleUser {
			role = "user"
		}
		messages = append(messages, ChatMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	var resp ChatResponse
	if err := c.post(ctx, "/api/chat", ChatRequest{Model: c.model, Messages: messages}, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// Generate sends a single prompt to /api/generate
func (c *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	var resp GenerateResponse
	if err := c.post(ctx, "/api/generate", GenerateRequest{Model: c.model, Prompt: prompt}, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (c *OllamaBackend) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// HealthCheck checks if Ollama is reachable
func (c *OllamaBackend) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("connecting to ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	return nil
}
