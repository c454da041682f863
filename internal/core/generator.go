package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Completer is the interface for completion services used by the generator.
// This matches llm.Adapter but is defined here to avoid import cycles.
type Completer interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Provider describes the service for user-facing messages.
	Provider() Provider

	// IsAvailable reports whether a credential was configured.
	IsAvailable() bool

	// Complete sends one prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	// Completer performs the outbound call.
	Completer Completer

	// Classifiers run before the substring fallback, typically typed SDK
	// error classifiers supplied by the llm package.
	Classifiers []Classifier

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Generator runs the prompt-to-artifacts pipeline for one description at a time.
// It holds no per-request state.
type Generator struct {
	completer   Completer
	classifiers []Classifier
	logger      *zap.Logger
}

// NewGenerator creates a generator. The substring classifier is always
// consulted last.
func NewGenerator(opts GeneratorOptions) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	classifiers := append([]Classifier{}, opts.Classifiers...)
	classifiers = append(classifiers, SubstringClassifier)
	return &Generator{
		completer:   opts.Completer,
		classifiers: classifiers,
		logger:      logger.With(zap.String("adapter", opts.Completer.Name())),
	}
}

// Provider returns the provider of the underlying completer.
func (g *Generator) Provider() Provider {
	return g.completer.Provider()
}

// Generate builds the prompt, calls the completer once, and normalizes the
// response. Any returned error is a *ClassifiedError.
func (g *Generator) Generate(ctx context.Context, description string) (*ArtifactPair, error) {
	provider := g.completer.Provider()
	if !g.completer.IsAvailable() {
		g.logger.Error("completion credential not configured",
			zap.String("env", provider.CredentialEnv))
		return nil, MissingCredential(provider)
	}

	prompt := BuildPrompt(description)
	g.logger.Debug("sending completion request", zap.Int("prompt_bytes", len(prompt)))

	start := time.Now()
	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		ce := Classify(err, provider, g.classifiers...)
		g.logger.Error("completion request failed",
			zap.String("reason", string(ce.Reason)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, ce
	}
	g.logger.Debug("completion received",
		zap.Int("response_bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)))

	pair, err := NormalizeResponse(raw)
	if err != nil {
		ce := Classify(err, provider, g.classifiers...)
		g.logger.Error("failed to normalize completion response",
			zap.String("reason", string(ce.Reason)),
			zap.String("raw", raw),
			zap.Error(err))
		return nil, ce
	}
	return pair, nil
}
