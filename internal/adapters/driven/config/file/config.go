// Package file provides the TOML-based application configuration.
// Configuration is resolved in three layers: built-in defaults, the
// config file, then environment variables (optionally loaded from a
// .env file in the working directory).
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Provider names accepted in the embedding section.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// EmbeddingConfig selects and configures the embedding service.
type EmbeddingConfig struct {
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
	// APIKeyEnv names the environment variable holding the API key for
	// cloud providers; keys never live in the config file itself.
	APIKeyEnv string `toml:"api_key_env"`
}

// LLMConfig configures the chat model service.
type LLMConfig struct {
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

// ChunkingConfig configures document splitting.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig configures query-time behaviour.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// Config is the root application configuration.
type Config struct {
	DataDir   string          `toml:"data_dir"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider: ProviderOllama,
			Model:    "nomic-embed-text",
		},
		LLM: LLMConfig{
			Temperature: 0.7,
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK: 3,
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.docchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docchat", "config.toml"), nil
}

// Load resolves the configuration from defaults, the TOML file at
// path (missing file is not an error), and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults plus environment only.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the configuration as TOML, creating the directory if
// needed.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// APIKey resolves the embedding provider's API key from the
// environment, if the provider needs one.
func (c *Config) APIKey() string {
	if c.Embedding.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Embedding.APIKeyEnv)
}

// applyEnv overlays environment variables on the configuration.
// A .env file in the working directory is honoured when present.
func (c *Config) applyEnv() {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	setString(&c.DataDir, "DOCCHAT_DATA_DIR")
	setString(&c.Embedding.BaseURL, "OLLAMA_EMBEDDINGS_BASE_URL")
	setString(&c.Embedding.Model, "OLLAMA_EMBEDDINGS_MODEL")
	setString(&c.LLM.BaseURL, "OLLAMA_LLM_BASE_URL")
	setString(&c.LLM.Model, "OLLAMA_LLM_MODEL")

	if v := os.Getenv("DOCCHAT_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Chunking.Size = n
		}
	}
	if v := os.Getenv("DOCCHAT_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retrieval.TopK = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
