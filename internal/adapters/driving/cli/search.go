package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/services"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the current bucket",
	Long: `Performs hybrid search over the current bucket: exact keyword
matches merged with embedding similarity, deduplicated. Works without an
embedding provider (keyword-only).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	store, _, err := openCurrentBucket()
	if err != nil {
		return err
	}
	defer store.Close()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	retriever := newRetriever(store, settings)

	ctx := context.Background()
	chunks, err := retriever.Retrieve(ctx, query)
	if errors.Is(err, domain.ErrEmptyQuery) {
		return fmt.Errorf("query is empty")
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	if len(chunks) > searchLimit {
		chunks = chunks[:searchLimit]
	}

	docStore := store.DocumentStore()
	cmd.Println(titleStyle.Render("Results"))
	cmd.Println()
	for i, c := range chunks {
		name := "Unknown"
		if doc, err := docStore.GetDocument(ctx, c.DocumentID); err == nil {
			name = doc.Filename
		}

		location := name
		if c.Position >= 0 {
			location = fmt.Sprintf("%s (chunk %d)", name, c.Position)
		}
		cmd.Printf("  [%d] %s %s\n", i+1, location, dimStyle.Render("["+string(c.Origin)+"]"))
		cmd.Printf("      %s\n\n", services.TruncateContent(c.Content, 200))
	}
	return nil
}
