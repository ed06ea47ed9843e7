package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage study buckets",
	Long: `Buckets are isolated collections of documents, each with its own
database. Create one per course or subject and switch between them.`,
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runBucketCreate,
}

var bucketUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch to a bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runBucketUse,
}

var bucketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all buckets",
	RunE:  runBucketList,
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a bucket and all its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runBucketDelete,
}

var bucketDeleteForce bool

func init() {
	bucketDeleteCmd.Flags().BoolVarP(&bucketDeleteForce, "force", "f", false, "skip confirmation")

	bucketCmd.AddCommand(bucketCreateCmd)
	bucketCmd.AddCommand(bucketUseCmd)
	bucketCmd.AddCommand(bucketListCmd)
	bucketCmd.AddCommand(bucketDeleteCmd)
	rootCmd.AddCommand(bucketCmd)
}

func runBucketCreate(cmd *cobra.Command, args []string) error {
	buckets, _, err := newBucketManager()
	if err != nil {
		return err
	}

	bucket, err := buckets.Create(args[0])
	if errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("bucket %q already exists", domain.NormalizeBucketName(args[0]))
	}
	if err != nil {
		return err
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Created bucket %q", bucket.Name)))
	cmd.Println(dimStyle.Render("Switch to it with: studydesk bucket use " + bucket.Name))
	return nil
}

func runBucketUse(cmd *cobra.Command, args []string) error {
	buckets, _, err := newBucketManager()
	if err != nil {
		return err
	}

	bucket, err := buckets.Use(args[0])
	if errors.Is(err, domain.ErrBucketNotFound) {
		return fmt.Errorf("bucket %q does not exist; create it with 'studydesk bucket create'", args[0])
	}
	if err != nil {
		return err
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Now using bucket %q", bucket.Name)))
	return nil
}

func runBucketList(cmd *cobra.Command, _ []string) error {
	buckets, config, err := newBucketManager()
	if err != nil {
		return err
	}

	names, err := buckets.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		cmd.Println("No buckets yet. Create one with: studydesk bucket create <name>")
		return nil
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}

	cmd.Println(titleStyle.Render("Buckets"))
	for _, name := range names {
		marker := "  "
		if name == settings.CurrentBucket {
			marker = successStyle.Render("* ")
		}
		cmd.Printf("%s%s\n", marker, name)
	}
	return nil
}

func runBucketDelete(cmd *cobra.Command, args []string) error {
	buckets, _, err := newBucketManager()
	if err != nil {
		return err
	}

	name := domain.NormalizeBucketName(args[0])
	if !bucketDeleteForce {
		cmd.Printf("Delete bucket %q and all its documents? [y/N] ", name)
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "y" && response != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := buckets.Delete(name); err != nil {
		if errors.Is(err, domain.ErrBucketNotFound) {
			return fmt.Errorf("bucket %q does not exist", name)
		}
		return err
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Deleted bucket %q", name)))
	return nil
}
