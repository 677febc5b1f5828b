package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/catalog"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/store"
)

// Prefix is prepended to every variable name. A variable unset under the
// prefix is also looked up without it, so GEMINI_API_KEY works as is.
const Prefix = "PLAYTEST"

// Config holds the application configuration.
type Config struct {
	Provider      string        `envconfig:"PROVIDER" default:"gemini"`
	Model         string        `envconfig:"MODEL"`
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL"`
	OllamaHost    string        `envconfig:"OLLAMA_HOST"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"2m"`
	CountTokens   bool          `envconfig:"COUNT_TOKENS" default:"false"`

	StoreDriver string `envconfig:"STORE" default:"yaml"`
	StorePath   string `envconfig:"STORE_PATH"`
	RulesPath   string `envconfig:"RULES"`
	CatalogDir  string `envconfig:"CATALOG_DIR"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the provider and store driver names. Provider keys are
// checked when a client is built, so commands that never call a model can
// run without them.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderOllama:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	switch c.StoreDriver {
	case store.DriverMemory, store.DriverYAML, store.DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", store.ErrUnknownDriver, c.StoreDriver)
	}
	return nil
}

// LLMOptions returns the text-generation client options.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		Provider:      c.Provider,
		Model:         c.Model,
		GeminiAPIKey:  c.GeminiAPIKey,
		OpenAIAPIKey:  c.OpenAIAPIKey,
		OpenAIBaseURL: c.OpenAIBaseURL,
		OllamaHost:    c.OllamaHost,
		Timeout:       c.Timeout,
		CountTokens:   c.CountTokens,
	}
}

// OpenStore opens the configured result store.
func (c *Config) OpenStore() (store.Store, error) {
	return store.Open(c.StoreDriver, c.StorePath)
}

// Catalog loads the card catalog from CatalogDir, or the embedded one.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if c.CatalogDir == "" {
		return catalog.Load()
	}
	return catalog.LoadFS(os.DirFS(c.CatalogDir))
}

// Logger builds a console logger at level, falling back to info for an
// unknown level.
func Logger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}

// LoadSimulation reads a simulation config file, applies defaults and
// validates the result.
func LoadSimulation(path string) (models.SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.SimulationConfig{}, err
	}
	return ParseSimulation(data)
}

// ParseSimulation decodes a YAML simulation config. Unknown fields are rejected.
func ParseSimulation(data []byte) (models.SimulationConfig, error) {
	var cfg models.SimulationConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return models.SimulationConfig{}, fmt.Errorf("%w: %w", models.ErrInvalidConfig, err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return models.SimulationConfig{}, err
	}
	return cfg, nil
}

// LoadRules returns the rule text at path, or the embedded summary when
// path is empty.
func LoadRules(path string) (string, error) {
	if path == "" {
		return catalog.RuleSummary, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading rules: %w", err)
	}
	return string(data), nil
}
