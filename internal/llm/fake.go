package llm

import (
	"context"
	"fmt"
	"sync"
)

// ChatCall records one Chat invocation on a FakeBackend
type ChatCall struct {
	System  string
	History []Message
	Message string
}

// FakeBackend is a deterministic backend for tests and local development.
// Nil funcs fall back to canned replies.
type FakeBackend struct {
	ChatFunc     func(history []Message, message string) (string, error)
	GenerateFunc func(prompt string) (string, error)

	mu            sync.Mutex
	chatCalls     []ChatCall
	generateCalls []string
}

// NewFakeBackend returns a fake with canned replies
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

// NewFailingBackend returns a fake whose every call fails with err
func NewFailingBackend(err error) *FakeBackend {
	return &FakeBackend{
		ChatFunc:     func([]Message, string) (string, error) { return "", err },
		GenerateFunc: func(string) (string, error) { return "", err },
	}
}

func (f *FakeBackend) Name() string {
	return "mock"
}

func (f *FakeBackend) Chat(ctx context.Context, system string, history []Message, message string) (string, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, ChatCall{
		System:  system,
		History: append([]Message(nil), history...),
		Message: message,
	})
	fn := f.ChatFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(history, message)
	}
	return fmt.Sprintf("I hear you! You said %q. How did that make you feel? 💭", message), nil
}

func (f *FakeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.generateCalls = append(f.generateCalls, prompt)
	fn := f.GenerateFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(prompt)
	}
	if IsMoodPrompt(prompt) {
		return "neutral", nil
	}
	return "A quiet moment of reflection, captured.", nil
}

// ChatCalls returns the recorded Chat invocations
func (f *FakeBackend) ChatCalls() []ChatCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ChatCall(nil), f.chatCalls...)
}

// GenerateCalls returns the recorded Generate prompts
func (f *FakeBackend) GenerateCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.generateCalls...)
}
