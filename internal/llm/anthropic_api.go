package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// DefaultAnthropicModel is used when the config names no model.
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicAPIAdapter uses the Anthropic API directly.
// The API has no JSON response mode, so the prompt alone carries the contract.
type AnthropicAPIAdapter struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewAnthropicAPIAdapter creates an Anthropic API adapter.
func NewAnthropicAPIAdapter(config Config, logger *zap.Logger) *AnthropicAPIAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	model := config.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicAPIAdapter{
		client:    anthropic.NewClient(opts...),
		apiKey:    config.APIKey,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (a *AnthropicAPIAdapter) Name() string {
	return "anthropic-api"
}

func (a *AnthropicAPIAdapter) Model() string {
	return a.model
}

func (a *AnthropicAPIAdapter) Provider() core.Provider {
	return core.Provider{Label: "Anthropic", CredentialEnv: "ANTHROPIC_API_KEY"}
}

func (a *AnthropicAPIAdapter) IsAvailable() bool {
	return a.apiKey != ""
}

func (a *AnthropicAPIAdapter) Classifier() core.Classifier {
	return core.ClassifierFunc(classifyAnthropicError)
}

func (a *AnthropicAPIAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	a.logger.Debug("anthropic request", zap.String("model", a.model), zap.Int("bytes", len(prompt)))
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(a.maxTokens),
		Temperature: anthropic.Float(Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	// Extract text from response
	var output strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			output.WriteString(block.Text)
		}
	}
	if output.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return output.String(), nil
}
