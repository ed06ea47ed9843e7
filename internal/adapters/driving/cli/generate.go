package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/services"
)

var (
	generateKind string
	generateSave bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate study content from your materials",
	Long: `Generates study content grounded in the current bucket. Kinds:

  study-guide  structured study guide
  flashcards   Q/A flashcards (use --save to schedule them for review)
  summary      condensed summary
  homework     practice problems with solutions

An optional topic focuses the content on matching material.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateKind, "kind", "k", "study-guide", "content kind")
	generateCmd.Flags().BoolVarP(&generateSave, "save", "s", false, "save flashcards as review items")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	store, _, err := openCurrentBucket()
	if err != nil {
		return err
	}
	defer store.Close()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	llm := newLLM(settings)
	if llm == nil {
		return fmt.Errorf("%w: set an API key with 'studydesk config set api-key <key>' or GROQ_API_KEY", domain.ErrLLMUnavailable)
	}

	kind, err := parseGenerationKind(generateKind)
	if err != nil {
		return err
	}

	topic := strings.Join(args, " ")
	gen := services.NewGenerator(llm, newRetriever(store, settings), store.DocumentStore())
	ctx := context.Background()

	cmd.Println(dimStyle.Render("Generating..."))

	if kind == services.GenFlashcards {
		cards, raw, err := gen.GenerateFlashcards(ctx, topic)
		if err != nil {
			return err
		}

		if len(cards) == 0 {
			cmd.Println(warnStyle.Render("Could not parse flashcards, showing raw output:"))
			cmd.Println()
			cmd.Println(raw)
			return nil
		}

		for _, c := range cards {
			cmd.Printf("%s %s\n", labelStyle.Render("Q:"), c.Front)
			cmd.Printf("%s %s\n\n", labelStyle.Render("A:"), c.Back)
		}

		if generateSave {
			items := services.StudyItemsFromFlashcards(cards, "", time.Now().UTC())
			study := services.NewStudyManager(store.StudyStore())
			if err := study.SaveItems(ctx, items); err != nil {
				return fmt.Errorf("saving review items: %w", err)
			}
			cmd.Println(successStyle.Render(fmt.Sprintf("Saved %d flashcards for review", len(items))))
		}
		return nil
	}

	out, err := gen.Generate(ctx, kind, topic)
	if err != nil {
		return err
	}
	cmd.Println(out)
	return nil
}

// parseGenerationKind maps the flag value onto a generation kind.
func parseGenerationKind(value string) (services.GenerationKind, error) {
	switch value {
	case "study-guide":
		return services.GenStudyGuide, nil
	case "flashcards":
		return services.GenFlashcards, nil
	case "summary":
		return services.GenSummary, nil
	case "homework":
		return services.GenHomework, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q (study-guide, flashcards, summary, homework)", domain.ErrInvalidInput, value)
	}
}
