package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEmbeddingServer asserts the request body against want and replies with response.
func newEmbeddingServer(t *testing.T, want string, response string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/embed", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, want, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestEmbed_SingleText(t *testing.T) {
	t.Parallel()

	server := newEmbeddingServer(t,
		`{"model":"text-embedding-004","content":"hello","input_type":"document"}`,
		`{"embeddings":[[0.1,0.2]]}`)

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "text-embedding-004"})
	require.NoError(t, err)

	embeddings, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1, 0.2}}, embeddings)
}

func TestEmbed_InputType(t *testing.T) {
	t.Parallel()

	server := newEmbeddingServer(t,
		`{"model":"nomic","content":"what is jazz?","input_type":"query"}`,
		`{"embeddings":[[1,2,3]]}`)

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	embeddings, err := client.Embed(context.Background(), "what is jazz?", WithInputType(QueryInputType))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}}, embeddings)
}

func TestEmbed_EmptyInputTypeKeepsDefault(t *testing.T) {
	t.Parallel()

	server := newEmbeddingServer(t,
		`{"model":"nomic","content":"x","input_type":"document"}`,
		`{"embeddings":[[0]]}`)

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "x", WithInputType(""))
	require.NoError(t, err)
}

func TestEmbedTexts_Batch(t *testing.T) {
	t.Parallel()

	server := newEmbeddingServer(t,
		`{"model":"nomic","content":["rock","jazz","blues"],"input_type":"document"}`,
		`{"embeddings":[[0.1],[0.2],[0.3]]}`)

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	embeddings, err := client.EmbedTexts(context.Background(), []string{"rock", "jazz", "blues"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1}, {0.2}, {0.3}}, embeddings)
}

func TestEmbedTexts_NilSendsEmptyArray(t *testing.T) {
	t.Parallel()

	server := newEmbeddingServer(t,
		`{"model":"nomic","content":[],"input_type":"document"}`,
		`{"embeddings":[]}`)

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	embeddings, err := client.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestEmbed_ReturnsVectorsVerbatim(t *testing.T) {
	t.Parallel()

	// ragged vectors are not validated client-side
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float64{{0.5, -0.25, 1e-3}, {}},
			"usage":      map[string]int{"tokens": 2},
		})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	embeddings, err := client.Embed(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, -0.25, 1e-3}, {}}, embeddings)
}

func TestEmbed_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "hi")
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, server.URL+"/embed", reqErr.URL)
}

func TestEmbed_InvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/embed", Model: "nomic"})
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode embedding response")
}
