package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOllamaBackend(t *testing.T) {
	client := NewOllamaBackend("http://localhost:11434", "llama3.2")

	require.NotNil(t, client)
	assert.Equal(t, "http://localhost:11434", client.baseURL)
	assert.Equal(t, "llama3.2", client.model)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, "ollama", client.Name())
}

func TestOllamaChat(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ChatResponse{Message: ChatMessage{Role: "assistant", Content: "tell me more"}, Done: true})
	}))
	defer srv.Close()

	client := NewOllamaBackend(srv.URL, "llama3.2")
	reply, err := client.Chat(context.Background(), "be kind", []Message{
		{Role: RoleModel, Content: "hi!"},
		{Role: RoleUser, Content: "rough day"},
	}, "really rough")

	require.NoError(t, err)
	assert.Equal(t, "tell me more", reply)
	assert.Equal(t, "llama3.2", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, []ChatMessage{
		{Role: "system", Content: "be kind"},
		{Role: "assistant", Content: "hi!"},
		{Role: "user", Content: "rough day"},
		{Role: "user", Content: "really rough"},
	}, got.Messages)
}

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "classify this", req.Prompt)
		json.NewEncoder(w).Encode(GenerateResponse{Response: "happy", Done: true})
	}))
	defer srv.Close()

	reply, err := NewOllamaBackend(srv.URL, "llama3.2").Generate(context.Background(), "classify this")
	require.NoError(t, err)
	assert.Equal(t, "happy", reply)
}

func TestOllamaSingleAttemptOnError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewOllamaBackend(srv.URL, "llama3.2").Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Equal(t, int32(1), hits.Load())
}

func TestOllamaMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := NewOllamaBackend(srv.URL, "llama3.2").Chat(context.Background(), "", nil, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestOllamaHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewOllamaBackend(srv.URL, "m").HealthCheck(context.Background()))

	g := NewGateway(NewOllamaBackend(srv.URL, "m"), nil, nil)
	assert.NoError(t, g.Health(context.Background()))
}
