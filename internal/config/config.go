package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/GenrecAI/genrecai-client/internal/platform/llm"
)

// EnvPrefix namespaces environment overrides, e.g. GENRECAI_BASE_URL.
const EnvPrefix = "GENRECAI"

// DefaultBaseURL is the server address without an endpoint suffix.
const DefaultBaseURL = "http://localhost:80"

// Keys shared by flags, environment variables and config files.
const (
	KeyBaseURL = "base-url"
	KeyModel   = "model"
	KeyConfig  = "config"
	KeyTimeout = "timeout"
	KeyVerbose = "verbose"
)

var ErrInvalidBaseURL = errors.New("invalid base URL")

// Config represents the resolved CLI configuration
type Config struct {
	BaseURL string        `json:"baseUrl"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
	Verbose bool          `json:"verbose"`
	// File is the config file that was read, if any.
	File string `json:"file,omitempty"`
}

// RegisterFlags adds the global flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyBaseURL, DefaultBaseURL, "Base URL for the API")
	flags.String(KeyModel, "", "Model name to use (required)")
	flags.String(KeyConfig, "", "Config file (yaml, json or toml)")
	flags.Duration(KeyTimeout, 0, "Per-request timeout, 0 waits indefinitely")
	flags.Bool(KeyVerbose, false, "Log request details to stderr")
}

// Load resolves configuration with the following precedence:
// 1. Command-line flags that were set explicitly
// 2. Environment variables (GENRECAI_*), including values from .env files
// 3. The config file named by --config / GENRECAI_CONFIG
// 4. Flag defaults
//
// .env files never override variables that are already set. Missing .env files are ignored.
func Load(flags *pflag.FlagSet, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return build(v)
}

// LoadFromMap builds a Config from an in-memory map keyed like the flags.
// It touches no process state, so tests using it can run in parallel.
func LoadFromMap(values map[string]string) (*Config, error) {
	v := newViper()
	for key, value := range values {
		v.Set(key, value)
	}
	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyVerbose, false)
	return v
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		Model:   strings.TrimSpace(v.GetString(KeyModel)),
		Timeout: v.GetDuration(KeyTimeout),
		Verbose: v.GetBool(KeyVerbose),
		File:    v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("--%s is required: %w", KeyModel, llm.ErrMissingModel)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q must be an absolute URL", ErrInvalidBaseURL, c.BaseURL)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("--%s must not be negative, got %s", KeyTimeout, c.Timeout)
	}
	return nil
}

// ChatURL returns the generation endpoint under BaseURL.
func (c *Config) ChatURL() string {
	return c.BaseURL + "/chat"
}

// EmbedURL returns the embedding endpoint under BaseURL.
func (c *Config) EmbedURL() string {
	return c.BaseURL + "/embed"
}
