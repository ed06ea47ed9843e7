package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/services"
)

var quizSave bool

var quizCmd = &cobra.Command{
	Use:   "quiz [topic]",
	Short: "Generate and take a quiz",
	Long: `Generates a quiz from the current bucket's materials and runs it
interactively. With --save, the questions become study items scheduled
for spaced-repetition review.`,
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().BoolVarP(&quizSave, "save", "s", false, "save questions as review items")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
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

	topic := strings.Join(args, " ")
	gen := services.NewGenerator(llm, newRetriever(store, settings), store.DocumentStore())

	ctx := context.Background()
	cmd.Println(dimStyle.Render("Generating quiz..."))
	result, err := gen.GenerateQuiz(ctx, topic)
	if err != nil {
		return err
	}

	if len(result.Questions) == 0 {
		// Parsing recovered nothing; the raw output is still useful.
		cmd.Println(warnStyle.Render("Could not parse structured questions, showing raw quiz:"))
		cmd.Println()
		cmd.Println(result.Raw)
		return nil
	}

	correct := runQuizInteractive(cmd, result.Questions)
	cmd.Println()
	cmd.Println(titleStyle.Render(fmt.Sprintf("Score: %d/%d", correct, len(result.Questions))))

	if quizSave {
		items := services.StudyItemsFromQuestions(result.Questions, "", time.Now().UTC())
		study := services.NewStudyManager(store.StudyStore())
		if err := study.SaveItems(ctx, items); err != nil {
			return fmt.Errorf("saving review items: %w", err)
		}
		cmd.Println(successStyle.Render(fmt.Sprintf("Saved %d questions for review", len(items))))
	}
	return nil
}

// runQuizInteractive asks each question and returns the number answered
// correctly.
func runQuizInteractive(cmd *cobra.Command, questions []services.QuizQuestion) int {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	correct := 0

	for i, q := range questions {
		cmd.Println()
		cmd.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("Q%d.", i+1)), q.Question)

		for _, o := range q.Options {
			cmd.Printf("   %c) %s\n", o.Letter, o.Text)
		}

		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		answer := strings.TrimSpace(scanner.Text())

		if gradeQuizAnswer(q, answer) {
			correct++
			cmd.Println(successStyle.Render("Correct!"))
		} else {
			cmd.Println(errorStyle.Render("Incorrect. Answer: " + q.ExpectedAnswer()))
		}
	}
	return correct
}

// gradeQuizAnswer grades one response according to the question kind.
func gradeQuizAnswer(q services.QuizQuestion, answer string) bool {
	if answer == "" {
		return false
	}

	switch q.Kind {
	case domain.StudyItemQuizMC:
		lower := strings.ToLower(answer)
		return lower[0] == q.Correct
	case domain.StudyItemQuizFill:
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.Answer))
	default:
		return services.GradeShortAnswer(q.ExpectedAnswer(), answer)
	}
}
