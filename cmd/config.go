package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
	"github.com/lotuschain/gnome-ext-builder/internal/llm"
)

// ConfigFileName is looked up in the current directory, then the home directory.
const ConfigFileName = ".gnome-ext-builder.yaml"

var (
	configFile  string // --config
	llmProvider string // --provider
	llmModel    string // --model
	llmBaseURL  string // --base-url

	logger = zap.NewNop()
)

// fileConfig is the on-disk configuration written by setup.
type fileConfig struct {
	Provider      string `yaml:"provider,omitempty"`
	Model         string `yaml:"model,omitempty"`
	BaseURL       string `yaml:"base_url,omitempty"`
	Output        string `yaml:"output,omitempty"`
	Dir           string `yaml:"dir,omitempty"`
	ExtensionsDir string `yaml:"extensions_dir,omitempty"`
	Addr          string `yaml:"addr,omitempty"`
}

// AddPersistentFlags registers the flags every command shares.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: "+ConfigFileName+")")
	root.PersistentFlags().StringVarP(&llmProvider, "provider", "p", llm.ProviderGemini, "Completion provider (gemini/anthropic)")
	root.PersistentFlags().StringVarP(&llmModel, "model", "m", "", "Model to use (provider-specific)")
	root.PersistentFlags().StringVar(&llmBaseURL, "base-url", "", "Override the provider endpoint")
}

// InitLogger builds the process logger. Verbose switches to debug level.
func InitLogger(verbose bool) error {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = logger.Sync()
}

// loadEnv reads .env from the working directory when present.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// findConfigPath returns the config file to read, or "" when none exists.
func findConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ConfigFileName)
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}
	return ""
}

// getConfigPath is where setup writes the configuration.
func getConfigPath() string {
	if configFile != "" {
		return configFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(home, ConfigFileName)
}

func readConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

func writeConfig(path string, cfg *fileConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// loadConfig reads .env and the config file, then applies file values to
// any flag the user did not set explicitly.
func loadConfig(cmd *cobra.Command) (*fileConfig, error) {
	if err := loadEnv(); err != nil {
		return nil, err
	}

	path := findConfigPath(configFile)
	if path == "" {
		return &fileConfig{}, nil
	}
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", zap.String("path", path))

	applyString(cmd, "provider", &llmProvider, cfg.Provider)
	applyString(cmd, "model", &llmModel, cfg.Model)
	applyString(cmd, "base-url", &llmBaseURL, cfg.BaseURL)
	return cfg, nil
}

// applyString sets *dst from the file value unless the flag was changed.
func applyString(cmd *cobra.Command, flag string, dst *string, value string) {
	if value == "" {
		return
	}
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return
	}
	*dst = value
}

// newGenerator builds the configured adapter and the pipeline around it.
// The credential is read from the environment exactly once, here.
func newGenerator(ctx context.Context) (*core.Generator, llm.Adapter, error) {
	config := llm.DefaultConfig()
	config.Provider = llmProvider
	config.Model = llmModel
	config.BaseURL = llmBaseURL
	config.APIKey = llm.CredentialFromEnv(llmProvider)

	adapter, err := llm.NewAdapter(ctx, config, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM adapter: %w", err)
	}

	gen := core.NewGenerator(core.GeneratorOptions{
		Completer:   adapter,
		Classifiers: []core.Classifier{adapter.Classifier()},
		Logger:      logger,
	})
	return gen, adapter, nil
}
