package cli

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var addTags string

var addCmd = &cobra.Command{
	Use:   "add [source...]",
	Short: "Add documents to the current bucket",
	Long: `Ingests one or more sources into the current bucket: local text
files (txt, md, html, ...) or web page URLs. Each source is chunked,
embedded when an embedding provider is reachable, and indexed for
search. Re-adding a source that is already present is a no-op.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "comma-separated tags for the documents")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, bucket, err := openCurrentBucket()
	if err != nil {
		return err
	}
	defer store.Close()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	ingester := newIngester(store, settings)

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("Ingesting"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)

	added, skipped, failed := 0, 0, 0
	ctx := context.Background()

	// One bad source must not sink the batch.
	for _, source := range args {
		result, err := ingester.Ingest(ctx, source, addTags)
		bar.Add(1)

		switch {
		case err != nil:
			failed++
			cmd.Println(errorStyle.Render(fmt.Sprintf("  %s: %v", source, err)))
		case result.Skipped:
			skipped++
			cmd.Println(dimStyle.Render(fmt.Sprintf("  %s: already in bucket, skipped", source)))
		default:
			added++
			cmd.Printf("  %s: %d chunks (%d embedded)\n",
				result.Document.Filename, result.Chunks, result.Embedded)
		}
	}

	cmd.Println()
	summary := fmt.Sprintf("Bucket %q: %d added, %d skipped, %d failed", bucket.Name, added, skipped, failed)
	if failed > 0 {
		cmd.Println(warnStyle.Render(summary))
	} else {
		cmd.Println(successStyle.Render(summary))
	}
	return nil
}
