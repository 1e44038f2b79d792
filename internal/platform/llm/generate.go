package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Generate starts a streamed completion for prompt.
// The request is sent before Generate returns, so status errors surface here;
// the body is then consumed lazily through the returned Stream.
func (c *Client) Generate(ctx context.Context, prompt string) (*Stream, error) {
	if err := c.requireMode("generate", ModeGeneration); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("model", c.model)
	query.Set("prompt", prompt)

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/generate?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return newStream(resp.Body), nil
}

// GenerateCompletion runs Generate to completion and concatenates the chunks.
func (c *Client) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	stream, err := c.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	chunks, err := stream.Collect()
	if err != nil {
		return "", err
	}

	return strings.Join(chunks, ""), nil
}
