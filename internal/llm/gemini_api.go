package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// DefaultGeminiModel is the model the builder was tuned against.
const DefaultGeminiModel = "gemini-2.5-flash-preview-04-17"

// ErrEmptyResponse is returned when the service answers without any text.
var ErrEmptyResponse = errors.New("llm: completion returned no text")

// GeminiAPIAdapter calls the Gemini API through the official genai client.
type GeminiAPIAdapter struct {
	cli    *genai.Client // nil when no credential was configured
	model  string
	logger *zap.Logger
}

// NewGeminiAPIAdapter creates a Gemini adapter. A missing API key is not an
// error here: the adapter reports IsAvailable() == false and the generator
// turns that into a missing-credential failure.
func NewGeminiAPIAdapter(ctx context.Context, config Config, logger *zap.Logger) (*GeminiAPIAdapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	a := &GeminiAPIAdapter{model: model, logger: logger}
	if config.APIKey == "" {
		return a, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	a.cli = cli
	return a, nil
}

func (a *GeminiAPIAdapter) Name() string {
	return "gemini-api"
}

func (a *GeminiAPIAdapter) Model() string {
	return a.model
}

func (a *GeminiAPIAdapter) Provider() core.Provider {
	return core.Provider{Label: "Gemini", CredentialEnv: "API_KEY"}
}

func (a *GeminiAPIAdapter) IsAvailable() bool {
	return a.cli != nil
}

func (a *GeminiAPIAdapter) Classifier() core.Classifier {
	return core.ClassifierFunc(classifyGeminiError)
}

// Complete sends the prompt once, asking for an application/json response.
func (a *GeminiAPIAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	if a.cli == nil {
		return "", fmt.Errorf("gemini API error: client not configured")
	}

	a.logger.Debug("gemini request", zap.String("model", a.model), zap.Int("bytes", len(prompt)))
	resp, err := a.cli.Models.GenerateContent(ctx, a.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](Temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	// Extract text from response
	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		output.WriteString(part.Text)
	}
	if output.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return output.String(), nil
}
