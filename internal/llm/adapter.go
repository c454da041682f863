package llm

import (
	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// Adapter is the interface all completion adapters must implement.
// It is satisfied structurally by core.Completer.
type Adapter interface {
	core.Completer

	// Model returns the model identifier requests are sent to.
	Model() string

	// Classifier maps this adapter's typed SDK errors to core reasons.
	Classifier() core.Classifier
}

// Provider identifiers accepted in configuration.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Temperature is fixed for every provider: moderate, favouring stable output.
const Temperature = 0.5

// Config holds configuration for completion adapters.
type Config struct {
	// Provider selects the adapter (gemini or anthropic).
	Provider string `yaml:"provider"`

	// Model overrides the adapter's default model.
	Model string `yaml:"model"`

	// APIKey is the credential, read once at startup. Empty means unconfigured.
	APIKey string `yaml:"-"`

	// BaseURL overrides the service endpoint (tests, proxies).
	BaseURL string `yaml:"base_url,omitempty"`

	// MaxTokens limits response length where the service requires it.
	MaxTokens int `yaml:"max_tokens,omitempty"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderGemini,
		MaxTokens: 8192,
	}
}
