package llm

import (
	"context"
	"errors"
)

// Role is the logical author of a history message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one prior turn sent along with a new message
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

var (
	// ErrNoCredential is returned by backend constructors when no API key is configured
	ErrNoCredential = errors.New("no API key configured")
	// ErrNoBackend is recorded when the gateway has nothing to call
	ErrNoBackend = errors.New("no model backend configured")
	// ErrEmptyResponse is recorded when the service answered with no text
	ErrEmptyResponse = errors.New("empty response from model")
)

// Backend is a generative-language service the gateway can call.
// History may contain consecutive messages with the same role.
type Backend interface {
	Name() string
	Chat(ctx context.Context, system string, history []Message, message string) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// HealthChecker is implemented by backends that can be probed cheaply
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
