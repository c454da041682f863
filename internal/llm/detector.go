package llm

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gemini-2.5-flash")
	Name        string // Human-readable name (e.g., "Gemini 2.5 Flash")
	Description string // Brief description
	Provider    string // Provider name (e.g., "gemini", "anthropic")
}

// geminiModels lists Gemini models known to honour JSON response mode.
var geminiModels = []ModelInfo{
	{ID: DefaultGeminiModel, Name: "Gemini 2.5 Flash (preview 04-17)", Description: "Default; fast, JSON response mode", Provider: ProviderGemini},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Stable flash model", Provider: ProviderGemini},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Description: "Slower, stronger on larger extensions", Provider: ProviderGemini},
}

// anthropicModels lists Claude models usable through the API.
var anthropicModels = []ModelInfo{
	{ID: DefaultAnthropicModel, Name: "Claude Sonnet 4", Description: "Balanced model", Provider: ProviderAnthropic},
	{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Description: "Best balance of speed and capability", Provider: ProviderAnthropic},
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Description: "Fastest, most cost-effective", Provider: ProviderAnthropic},
}

// CredentialFromEnv returns the credential for a provider, read once at startup.
// Gemini honours API_KEY first, then GEMINI_API_KEY.
func CredentialFromEnv(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		if key := os.Getenv("API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GEMINI_API_KEY")
	}
}

// CredentialEnv names the primary environment variable for a provider's credential.
func CredentialEnv(provider string) string {
	if provider == ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "API_KEY"
}

// AvailableModels returns models grouped by provider.
func AvailableModels() map[string][]ModelInfo {
	return map[string][]ModelInfo{
		ProviderGemini:    geminiModels,
		ProviderAnthropic: anthropicModels,
	}
}

// AllModels returns a flat list of all models, Gemini first.
func AllModels() []ModelInfo {
	result := append([]ModelInfo{}, geminiModels...)
	return append(result, anthropicModels...)
}

// NewAdapter builds the adapter named by config.Provider.
func NewAdapter(ctx context.Context, config Config, logger *zap.Logger) (Adapter, error) {
	switch config.Provider {
	case "", ProviderGemini:
		adapter, err := NewGeminiAPIAdapter(ctx, config, logger)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	case ProviderAnthropic:
		return NewAnthropicAPIAdapter(config, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}
}
