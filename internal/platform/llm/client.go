package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GenrecAI/genrecai-client/internal/pkg/log"
)

// Version is reported in the User-Agent header of every request.
const Version = "v1.0.0"

// DefaultInputType is sent with embedding requests unless WithInputType overrides it.
const DefaultInputType = "document"

const maxErrorBody = 512

// Mode selects which endpoint of the service a Client talks to.
type Mode int

const (
	// ModeAuto derives the mode from the base URL suffix.
	ModeAuto Mode = iota
	ModeGeneration
	ModeEmbedding
)

func (m Mode) String() string {
	switch m {
	case ModeGeneration:
		return "generation"
	case ModeEmbedding:
		return "embedding"
	default:
		return "auto"
	}
}

func (m Mode) suffix() string {
	switch m {
	case ModeGeneration:
		return "/chat"
	case ModeEmbedding:
		return "/embed"
	default:
		return ""
	}
}

// Config contains client configuration
type Config struct {
	// BaseURL is the full endpoint URL, e.g. http://localhost:80/chat or http://localhost:80/embed.
	BaseURL string
	Model   string
	// Mode is optional; when set it must agree with the BaseURL suffix.
	Mode Mode
	// Timeout of zero leaves requests bounded only by the context.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to a single endpoint of the generation/embedding service.
// A Client is immutable after New and safe for concurrent use.
type Client struct {
	baseURL    string
	serverRoot string
	mode       Mode
	model      string
	httpClient *http.Client
}

// NewGenerationClient is a shortcut for New with ModeGeneration.
func NewGenerationClient(baseURL, model string) (*Client, error) {
	return New(Config{BaseURL: baseURL, Model: model, Mode: ModeGeneration})
}

// NewEmbeddingClient is a shortcut for New with ModeEmbedding.
func NewEmbeddingClient(baseURL, model string) (*Client, error) {
	return New(Config{BaseURL: baseURL, Model: model, Mode: ModeEmbedding})
}

// New validates config and builds a Client. The endpoint mode is fixed here.
func New(config Config) (*Client, error) {
	if strings.TrimSpace(config.Model) == "" {
		return nil, &ConfigurationError{Code: CodeMissingModel, Cause: ErrMissingModel}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, newConfigurationError(CodeInvalidBaseURL, ErrInvalidBaseURL, "%v", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, newConfigurationError(CodeInvalidBaseURL, ErrInvalidBaseURL, "%q must be an absolute URL", config.BaseURL)
	}

	detected := detectMode(parsed.Path)
	switch {
	case detected == ModeAuto:
		return nil, newConfigurationError(CodeUnknownEndpoint, ErrUnknownEndpoint, "got %q", config.BaseURL)
	case config.Mode != ModeAuto && config.Mode != detected:
		return nil, newConfigurationError(CodeAmbiguousEndpoint, ErrAmbiguousEndpoint,
			"requested %s mode but %q points at the %s endpoint", config.Mode, config.BaseURL, detected)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:    baseURL,
		serverRoot: strings.TrimSuffix(baseURL, detected.suffix()),
		mode:       detected,
		model:      config.Model,
		httpClient: httpClient,
	}, nil
}

func detectMode(path string) Mode {
	for _, m := range []Mode{ModeGeneration, ModeEmbedding} {
		if strings.HasSuffix(path, m.suffix()) {
			return m
		}
	}
	return ModeAuto
}

// BaseURL returns the normalized endpoint URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ServerRoot returns the base URL with the endpoint suffix removed.
func (c *Client) ServerRoot() string { return c.serverRoot }

// Mode returns the endpoint mode fixed at construction.
func (c *Client) Mode() Mode { return c.mode }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

func (c *Client) requireMode(op string, required Mode) error {
	if c.mode != required {
		return &ModeMismatchError{Operation: op, Mode: c.mode, Required: required}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "genrecai-client/"+Version)
	if id := log.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

// do executes req and converts any non-200 status into a RequestError.
// On success the caller owns resp.Body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.String(),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return resp, nil
}
