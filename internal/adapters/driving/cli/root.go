package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olivestory-corp/docchat/internal/adapters/driven/config/file"
	ollamaembed "github.com/olivestory-corp/docchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/olivestory-corp/docchat/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/olivestory-corp/docchat/internal/adapters/driven/llm/ollama"
	"github.com/olivestory-corp/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
	"github.com/olivestory-corp/docchat/internal/core/ports/driving"
	"github.com/olivestory-corp/docchat/internal/core/services"
	"github.com/olivestory-corp/docchat/internal/loaders"
	"github.com/olivestory-corp/docchat/internal/logger"
	"github.com/olivestory-corp/docchat/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose bool
	flagConfig  string
	flagDataDir string
)

// Services wired during initServices. Commands nil-check these so a
// partially initialised process fails with a clear message.
var (
	appConfig        *file.Config
	chunkStore       driven.ChunkStore
	ingestService    driving.Ingestor
	retrieverService driving.Retriever
	answerService    driving.Answerer
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents",
	Long: `docchat ingests PDF and text documents into a local vector store
and answers questions about them using a local or remote LLM.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initServices()
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.docchat/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for the chunk database (default ~/.docchat/data)")
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// initServices builds the full service graph from configuration.
func initServices() error {
	cfg, err := file.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	appConfig = cfg

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open chunk store: %w", err)
	}
	chunkStore = store

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	llm, err := ollamallm.NewLLMService(ollamallm.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return fmt.Errorf("configure chat model: %w", err)
	}

	pipeline := postprocessors.NewDefaultPipeline(cfg.Chunking.Size, cfg.Chunking.Overlap)
	registry := loaders.NewRegistry()

	ingestService = services.NewIngestService(store, embedder, pipeline, registry)
	retrieverService = services.NewRetrieverService(store, embedder)
	answerService = services.NewAnswerService(retrieverService, llm,
		services.WithTopK(cfg.Retrieval.TopK),
		services.WithTemperature(cfg.LLM.Temperature),
	)
	return nil
}

// newEmbedder selects the embedding backend from configuration.
func newEmbedder(cfg *file.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case file.ProviderOllama, "":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}), nil
	case file.ProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.APIKey(),
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("configure openai embeddings: %w", err)
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

// closeServices releases resources held by the service graph.
func closeServices() error {
	if chunkStore != nil {
		if err := chunkStore.Close(); err != nil {
			return fmt.Errorf("close chunk store: %w", err)
		}
		chunkStore = nil
	}
	return nil
}
