package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/segmentio/encoding/json"
)

// ModelsURL returns the listing endpoint for the client's mode. Listings live
// beside the active endpoint, under the server root.
func (c *Client) ModelsURL() string {
	if c.mode == ModeGeneration {
		return c.serverRoot + "/models"
	}
	return c.serverRoot + "/embed/models"
}

// ListModels returns the model names served by the client's endpoint.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.ModelsURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var models []string
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}

	return models, nil
}

// Health checks that the service answers the model listing for this endpoint.
func (c *Client) Health(ctx context.Context) error {
	if _, err := c.ListModels(ctx); err != nil {
		return fmt.Errorf("%s service is not available at %s: %w", c.mode, c.serverRoot, err)
	}
	return nil
}
