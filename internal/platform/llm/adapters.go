package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

// QueryInputType is sent when embedding search queries rather than documents.
const QueryInputType = "query"

// LangChainModel adapts a generation Client to the LangChainGo llms.Model interface
type LangChainModel struct {
	client CompletionClient
}

// Ensure LangChainModel implements llms.Model
var _ llms.Model = (*LangChainModel)(nil)

// NewLangChainModel creates a new adapter for a generation client
func NewLangChainModel(client CompletionClient) *LangChainModel {
	return &LangChainModel{client: client}
}

// Call implements the deprecated Call method for backwards compatibility
func (a *LangChainModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, a, prompt, options...)
}

// GenerateContent flattens the text parts of messages into a single prompt and
// streams the answer. Chunks are forwarded to the StreamingFunc option as they arrive.
func (a *LangChainModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	var parts []string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if textPart, ok := part.(llms.TextContent); ok {
				parts = append(parts, textPart.Text)
			}
		}
	}

	stream, err := a.client.Generate(ctx, strings.Join(parts, "\n"))
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var content strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if opts.StreamingFunc != nil {
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				return nil, fmt.Errorf("streaming callback failed: %w", err)
			}
		}
		content.WriteString(chunk)
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: content.String(),
			},
		},
	}, nil
}

// LangChainEmbedder adapts an embedding Client to the LangChainGo embeddings.Embedder interface
type LangChainEmbedder struct {
	client EmbeddingClient
}

// Ensure LangChainEmbedder implements embeddings.Embedder
var _ embeddings.Embedder = (*LangChainEmbedder)(nil)

// NewLangChainEmbedder creates a new adapter for an embedding client
func NewLangChainEmbedder(client EmbeddingClient) *LangChainEmbedder {
	return &LangChainEmbedder{client: client}
}

// EmbedDocuments embeds texts with the "document" input type.
func (e *LangChainEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.client.EmbedTexts(ctx, texts, WithInputType(DefaultInputType))
	if err != nil {
		return nil, err
	}
	return toFloat32(vectors), nil
}

// EmbedQuery embeds a single search query with the "query" input type.
func (e *LangChainEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.client.EmbedTexts(ctx, []string{text}, WithInputType(QueryInputType))
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding service returned no vectors for query")
	}
	return toFloat32(vectors)[0], nil
}

func toFloat32(vectors [][]float64) [][]float32 {
	out := make([][]float32, len(vectors))
	for i, vec := range vectors {
		out[i] = make([]float32, len(vec))
		for j, v := range vec {
			out[i][j] = float32(v)
		}
	}
	return out
}
