package llm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/segmentio/encoding/json"
)

// EmbedOption customizes a single embedding request.
type EmbedOption func(*embedRequest)

// WithInputType sets the input_type field, e.g. "document" or "query".
func WithInputType(inputType string) EmbedOption {
	return func(r *embedRequest) {
		if inputType != "" {
			r.InputType = inputType
		}
	}
}

// content is a string for single inputs and a []string for batches,
// matching what the service accepts.
type embedRequest struct {
	Model     string      `json:"model"`
	Content   interface{} `json:"content"`
	InputType string      `json:"input_type"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Embed returns the embeddings for a single piece of text.
func (c *Client) Embed(ctx context.Context, content string, opts ...EmbedOption) ([][]float64, error) {
	return c.embed(ctx, content, opts)
}

// EmbedTexts returns one embedding per input text, in order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string, opts ...EmbedOption) ([][]float64, error) {
	if texts == nil {
		texts = []string{}
	}
	return c.embed(ctx, texts, opts)
}

func (c *Client) embed(ctx context.Context, content interface{}, opts []EmbedOption) ([][]float64, error) {
	if err := c.requireMode("embed", ModeEmbedding); err != nil {
		return nil, err
	}

	reqBody := embedRequest{
		Model:     c.model,
		Content:   content,
		InputType: DefaultInputType,
	}
	for _, opt := range opts {
		opt(&reqBody)
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var embResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}

	return embResp.Embeddings, nil
}
