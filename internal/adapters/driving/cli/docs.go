package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage documents in the current bucket",
	RunE:  runDocsList,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE:  runDocsList,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a document's content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsShow,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsShowCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	store, bucket, err := openCurrentBucket()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	docs, err := store.DocumentStore().ListDocuments(ctx)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		cmd.Printf("Bucket %q is empty. Add materials with: studydesk add <file>\n", bucket.Name)
		return nil
	}

	chunkCount, err := store.DocumentStore().CountChunks(ctx)
	if err != nil {
		return err
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("Documents in %q", bucket.Name)))
	for _, d := range docs {
		cmd.Printf("  %s  %s %s\n",
			dimStyle.Render(d.ID[:8]),
			d.Filename,
			dimStyle.Render(fmt.Sprintf("(%s, %s)", d.Kind, d.CreatedAt.Local().Format("2006-01-02"))))
		if d.Tags != "" {
			cmd.Printf("            %s\n", dimStyle.Render("tags: "+d.Tags))
		}
	}
	cmd.Println()
	cmd.Println(dimStyle.Render(fmt.Sprintf("%d documents, %d chunks", len(docs), chunkCount)))
	return nil
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	store, _, err := openCurrentBucket()
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := resolveDocument(context.Background(), store.DocumentStore(), args[0])
	if err != nil {
		return err
	}

	cmd.Println(titleStyle.Render(doc.Filename))
	cmd.Println(dimStyle.Render(fmt.Sprintf("id: %s  kind: %s  source: %s", doc.ID, doc.Kind, doc.SourcePath)))
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	store, _, err := openCurrentBucket()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	doc, err := resolveDocument(ctx, store.DocumentStore(), args[0])
	if err != nil {
		return err
	}

	if err := store.DocumentStore().DeleteDocument(ctx, doc.ID); err != nil {
		return err
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Deleted %s", doc.Filename)))
	return nil
}

// resolveDocument finds a document by full id or unique id prefix.
func resolveDocument(ctx context.Context, store interface {
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}, id string) (*domain.Document, error) {
	doc, err := store.GetDocument(ctx, id)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	var match *domain.Document
	for i := range docs {
		if len(id) >= 4 && len(docs[i].ID) >= len(id) && docs[i].ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("%w: id prefix %q is ambiguous", domain.ErrInvalidInput, id)
			}
			match = &docs[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: no document with id %q", domain.ErrNotFound, id)
	}
	return match, nil
}
