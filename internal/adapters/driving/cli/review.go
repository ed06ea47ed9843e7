package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/studydesk/studydesk-cli/internal/core/ports/driving"
	"github.com/studydesk/studydesk-cli/internal/core/services"
)

var reviewLimit int

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review due study items",
	Long: `Shows study items that are due and reschedules each one from your
0-5 recall rating:

  0  total blackout          3  correct, with effort
  1  wrong, answer familiar  4  correct, some hesitation
  2  wrong, seemed easy      5  instant recall

A rating below 3 resets the item to tomorrow.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().IntVarP(&reviewLimit, "limit", "n", 20, "maximum items per session")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	store, bucket, err := openCurrentBucket()
	if err != nil {
		return err
	}
	defer store.Close()

	study := services.NewStudyManager(store.StudyStore())
	ctx := context.Background()
	now := time.Now().UTC()

	due, err := study.DueItems(ctx, now, reviewLimit)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		cmd.Println(successStyle.Render("Nothing due for review. Nice work!"))
		return nil
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("%d items due in %q", len(due), bucket.Name)))
	scanner := bufio.NewScanner(cmd.InOrStdin())

	reviewed := 0
	for i, item := range due {
		cmd.Println()
		cmd.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("[%d/%d]", i+1, len(due))), item.Front)
		cmd.Print(dimStyle.Render("(press enter to reveal) "))
		if !scanner.Scan() {
			break
		}

		cmd.Println(item.Back)

		quality, ok := promptQuality(cmd, scanner)
		if !ok {
			break
		}

		updated, err := study.Review(ctx, item.ID, quality)
		if err != nil {
			return err
		}
		reviewed++

		next := updated.NextReview.Local().Format("2006-01-02")
		if quality < driving.QualityOK {
			cmd.Println(warnStyle.Render("Back to tomorrow."))
		} else {
			cmd.Println(dimStyle.Render(fmt.Sprintf("Next review: %s (%.1f days)", next, updated.IntervalDays)))
		}
	}

	cmd.Println()
	cmd.Println(successStyle.Render(fmt.Sprintf("Reviewed %d items.", reviewed)))
	return nil
}

// promptQuality reads a 0-5 rating, reprompting on junk. Returns false
// when input ends or the user quits.
func promptQuality(cmd *cobra.Command, scanner *bufio.Scanner) (driving.ReviewQuality, bool) {
	for {
		cmd.Print("Recall 0-5 (q to stop): ")
		if !scanner.Scan() {
			return 0, false
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "q" || input == "quit" {
			return 0, false
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 0 || n > 5 {
			cmd.Println(warnStyle.Render("Enter a number from 0 to 5."))
			continue
		}
		return driving.ReviewQuality(n), true
	}
}
