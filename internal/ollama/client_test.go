package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})

	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultModel, c.Model())
}

func TestClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req.Model)
		assert.Equal(t, "say hi", req.Prompt)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(generateResponse{Response: "hi there", Done: true})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	out, err := c.Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
}

func TestClient_Generate_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation backend unreachable")
}

func TestClient_Generate_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestClient_Generate_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Generate_ContextCanceled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	c := NewClient(Config{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "prompt")
	require.Error(t, err)
}
