package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studydesk/studydesk-cli/internal/chunker"
	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a configuration value. Keys:

  api-key             chat provider API key
  model               chat model name
  embedding-provider  ollama or openai
  embedding-model     embedding model name
  embedding-base-url  embedding endpoint override
  chunk-size          chunk size in characters
  chunk-overlap       chunk overlap in characters`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	config, err := newConfigStore()
	if err != nil {
		return err
	}
	settings, err := config.Load()
	if err != nil {
		return err
	}

	cmd.Println(titleStyle.Render("Settings"))
	cmd.Println()

	cmd.Println(labelStyle.Render("[Chat]"))
	cmd.Printf("  Model: %s\n", orDefault(settings.Model, domain.DefaultModel))
	if settings.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.APIKey))
	} else {
		cmd.Println("  API Key: (not set, falls back to GROQ_API_KEY)")
	}
	cmd.Println()

	cmd.Println(labelStyle.Render("[Embedding]"))
	cmd.Printf("  Provider: %s\n", orDefault(settings.EmbeddingProvider, "ollama"))
	cmd.Printf("  Model: %s\n", orDefault(settings.EmbeddingModel, "(provider default)"))
	if settings.EmbeddingBaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.EmbeddingBaseURL)
	}
	cmd.Println()

	cmd.Println(labelStyle.Render("[Chunking]"))
	cmd.Printf("  Chunk size: %s\n", orDefaultInt(settings.ChunkSize, chunker.DefaultChunkSize))
	cmd.Printf("  Chunk overlap: %s\n", orDefaultInt(settings.ChunkOverlap, chunker.DefaultOverlap))
	cmd.Println()

	cmd.Println(dimStyle.Render("Config file: " + config.Path()))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	config, err := newConfigStore()
	if err != nil {
		return err
	}
	settings, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "api-key":
		settings.APIKey = value
	case "model":
		settings.Model = value
	case "embedding-provider":
		if value != "ollama" && value != "openai" {
			return fmt.Errorf("%w: embedding-provider must be ollama or openai", domain.ErrInvalidInput)
		}
		settings.EmbeddingProvider = value
	case "embedding-model":
		settings.EmbeddingModel = value
	case "embedding-base-url":
		settings.EmbeddingBaseURL = value
	case "chunk-size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: chunk-size must be a positive integer", domain.ErrInvalidInput)
		}
		settings.ChunkSize = n
	case "chunk-overlap":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: chunk-overlap must be a non-negative integer", domain.ErrInvalidInput)
		}
		settings.ChunkOverlap = n
	default:
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	if err := config.Save(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Set %s", key)))
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orDefaultInt(value, fallback int) string {
	if value == 0 {
		return fmt.Sprintf("%d (default)", fallback)
	}
	return strconv.Itoa(value)
}
