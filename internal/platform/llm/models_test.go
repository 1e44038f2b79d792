package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelsServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`["llama-3.3-70b-versatile","mixtral-8x7b"]`))
	})
	mux.HandleFunc("/embed/models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`["text-embedding-004"]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestListModels(t *testing.T) {
	t.Parallel()

	server := newModelsServer(t)

	gen, err := New(Config{BaseURL: server.URL + "/chat", Model: "llama"})
	require.NoError(t, err)
	models, err := gen.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama-3.3-70b-versatile", "mixtral-8x7b"}, models)

	emb, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)
	models, err = emb.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"text-embedding-004"}, models)
}

func TestListModels_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such route"))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	_, err = client.ListModels(context.Background())
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Contains(t, err.Error(), "no such route")
}

func TestListModels_InvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":"not a list"}`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/chat", Model: "llama"})
	require.NoError(t, err)

	_, err = client.ListModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode models response")
}

func TestHealth(t *testing.T) {
	t.Parallel()

	server := newModelsServer(t)

	client, err := New(Config{BaseURL: server.URL + "/chat", Model: "llama"})
	require.NoError(t, err)
	require.NoError(t, client.Health(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	client, err = New(Config{BaseURL: down.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	err = client.Health(context.Background())
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "embedding service is not available")
}
