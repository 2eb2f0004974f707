// Package config loads harness configuration from a YAML file with
// environment overrides for credentials. The defaults target a local
// Ollama server at temperature zero, matching the offline setup the
// harness is built for; no config file is required to run locally.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-abeval/internal/llm"
	"github.com/ahrav/go-abeval/internal/llm/providers"
)

// Default configuration values.
const (
	defaultProvider    = providers.ProviderOllama
	defaultModel       = providers.DefaultOllamaModel
	defaultTimeoutSecs = 300
	defaultTracePath   = "runs.jsonl"
)

// Config holds provider and harness settings.
type Config struct {
	// Provider selects the generation backend: "ollama" or "openai".
	Provider string `yaml:"provider"`

	// Endpoint overrides the provider's base URL. Empty selects the
	// provider default.
	Endpoint string `yaml:"endpoint"`

	// Model names the model to invoke.
	Model string `yaml:"model"`

	// APIKeyEnv names the environment variable holding the API key for
	// hosted providers. The key itself never lives in the config file.
	APIKeyEnv string `yaml:"api_key_env"`

	// Temperature controls sampling randomness. Zero keeps runs as
	// repeatable as the backing model allows.
	Temperature float64 `yaml:"temperature"`

	// TimeoutSecs bounds each provider HTTP call.
	TimeoutSecs int `yaml:"timeout_secs"`

	// TracePath is the JSONL interaction trail file. Empty disables tracing.
	TracePath string `yaml:"trace_path"`
}

// Default returns the local-Ollama configuration used when no config file
// exists.
func Default() Config {
	return Config{
		Provider:    defaultProvider,
		Model:       defaultModel,
		Temperature: 0,
		TimeoutSecs: defaultTimeoutSecs,
		TracePath:   defaultTracePath,
	}
}

// Load reads configuration from the YAML file at path, filling unset fields
// from defaults. A missing file is an error; use LoadOrDefault when the
// file is optional.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault reads configuration from path when the file exists and
// falls back to defaults when it does not. Any other read or parse failure
// is still an error.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// ClientConfig translates the harness configuration into generation client
// settings, resolving the API key from the configured environment variable.
func (c Config) ClientConfig() llm.Config {
	var apiKey string
	if c.APIKeyEnv != "" {
		apiKey = os.Getenv(c.APIKeyEnv)
	}

	return llm.Config{
		Provider:    c.Provider,
		Endpoint:    c.Endpoint,
		Model:       c.Model,
		APIKey:      apiKey,
		Temperature: c.Temperature,
		Timeout:     time.Duration(c.TimeoutSecs) * time.Second,
	}
}
