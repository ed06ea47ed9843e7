// Package cli implements the studydesk command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/studydesk/studydesk-cli/internal/adapters/driven/config/file"
	"github.com/studydesk/studydesk-cli/internal/adapters/driven/embedding/ollama"
	"github.com/studydesk/studydesk-cli/internal/adapters/driven/embedding/openai"
	"github.com/studydesk/studydesk-cli/internal/adapters/driven/llm/groq"
	"github.com/studydesk/studydesk-cli/internal/adapters/driven/storage/sqlite"
	"github.com/studydesk/studydesk-cli/internal/chunker"
	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
	"github.com/studydesk/studydesk-cli/internal/core/services"
	"github.com/studydesk/studydesk-cli/internal/extract/plaintext"
	"github.com/studydesk/studydesk-cli/internal/extract/web"
	"github.com/studydesk/studydesk-cli/internal/logger"
)

var (
	verbose bool
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "studydesk",
	Short: "Study assistant over your own course materials",
	Long: `studydesk ingests your course materials into isolated buckets and
answers questions, generates quizzes and schedules reviews grounded in
what you actually uploaded.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.studydesk)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveDataDir returns the effective data directory.
func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".studydesk"), nil
}

// newConfigStore opens the config store in the data directory.
func newConfigStore() (*configfile.ConfigStore, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	return configfile.NewConfigStore(dir)
}

// newBucketManager wires the bucket service.
func newBucketManager() (*services.BucketManager, *configfile.ConfigStore, error) {
	config, err := newConfigStore()
	if err != nil {
		return nil, nil, err
	}
	dir, err := resolveDataDir()
	if err != nil {
		return nil, nil, err
	}
	return services.NewBucketManager(dir, config), config, nil
}

// openCurrentBucket opens the store for the current bucket. Commands
// that need a bucket call this and surface a uniform hint when none is
// selected.
func openCurrentBucket() (*sqlite.Store, *domain.Bucket, error) {
	buckets, _, err := newBucketManager()
	if err != nil {
		return nil, nil, err
	}

	bucket, err := buckets.Current()
	if err != nil {
		return nil, nil, err
	}
	if bucket == nil {
		return nil, nil, fmt.Errorf("%w: run 'studydesk bucket use <name>' first", domain.ErrNoBucket)
	}

	store, err := sqlite.NewStore(bucket.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening bucket %s: %w", bucket.Name, err)
	}
	return store, bucket, nil
}

// loadSettings reads persisted settings, overlaying environment
// variables for secrets.
func loadSettings() (domain.Settings, error) {
	config, err := newConfigStore()
	if err != nil {
		return domain.Settings{}, err
	}
	settings, err := config.Load()
	if err != nil {
		return domain.Settings{}, err
	}
	if settings.APIKey == "" {
		settings.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if settings.Model == "" {
		settings.Model = domain.DefaultModel
	}
	return settings, nil
}

// newEmbedder builds the embedding service from settings. Returns nil
// when embeddings are not configured; retrieval then degrades to
// keyword-only.
func newEmbedder(settings domain.Settings) driven.EmbeddingService {
	switch settings.EmbeddingProvider {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			logger.Warn("OPENAI_API_KEY not set, semantic search disabled")
			return nil
		}
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  key,
			BaseURL: settings.EmbeddingBaseURL,
			Model:   settings.EmbeddingModel,
		})
		if err != nil {
			logger.Warn("OpenAI embedding setup failed: %v", err)
			return nil
		}
		return svc
	default:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: settings.EmbeddingBaseURL,
			Model:   settings.EmbeddingModel,
		})
	}
}

// newLLM builds the chat service from settings. Returns nil when no API
// key is configured.
func newLLM(settings domain.Settings) driven.LLMService {
	if settings.APIKey == "" {
		return nil
	}
	svc, err := groq.NewLLMService(groq.Config{
		APIKey: settings.APIKey,
		Model:  settings.Model,
	})
	if err != nil {
		logger.Warn("Chat provider setup failed: %v", err)
		return nil
	}
	return svc
}

// newSplitter builds the chunker from settings.
func newSplitter(settings domain.Settings) *chunker.Splitter {
	var opts []chunker.Option
	if settings.ChunkSize > 0 {
		opts = append(opts, chunker.WithChunkSize(settings.ChunkSize))
	}
	if settings.ChunkOverlap > 0 {
		opts = append(opts, chunker.WithOverlap(settings.ChunkOverlap))
	}
	return chunker.New(opts...)
}

// newIngester wires the ingest service for a bucket store.
func newIngester(store *sqlite.Store, settings domain.Settings) *services.Ingester {
	extractors := []driven.Extractor{
		web.NewExtractor(),
		plaintext.NewExtractor(),
	}
	return services.NewIngester(
		store.DocumentStore(),
		newEmbedder(settings),
		extractors,
		newSplitter(settings),
	)
}

// newRetriever wires the retrieval service for a bucket store.
func newRetriever(store *sqlite.Store, settings domain.Settings) *services.Retriever {
	return services.NewRetriever(
		store.DocumentStore(),
		newEmbedder(settings),
		services.DefaultRetrieverOptions(),
	)
}
