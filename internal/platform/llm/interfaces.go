package llm

import "context"

// CompletionClient is responsible for streaming text responses from a prompt.
type CompletionClient interface {
	Generate(ctx context.Context, prompt string) (*Stream, error)
	Health(ctx context.Context) error
}

// EmbeddingClient is responsible for turning text into vector embeddings.
type EmbeddingClient interface {
	EmbedTexts(ctx context.Context, texts []string, opts ...EmbedOption) ([][]float64, error)
	Health(ctx context.Context) error
}

// ModelLister reports which models an endpoint serves.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

var (
	_ CompletionClient = (*Client)(nil)
	_ EmbeddingClient  = (*Client)(nil)
	_ ModelLister      = (*Client)(nil)
)
