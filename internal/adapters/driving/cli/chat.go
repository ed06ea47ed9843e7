package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/services"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Chat with your study materials",
	Long: `Asks questions grounded in the current bucket's documents. With a
question argument it answers once; without one it starts an interactive
session. Requires a chat API key (config set api-key, or GROQ_API_KEY).`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	store, bucket, err := openCurrentBucket()
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

	chat := services.NewChat(llm, newRetriever(store, settings), store.DocumentStore())

	ctx := context.Background()
	system, err := chat.SystemPrompt(ctx)
	if err != nil {
		return err
	}
	history := []domain.ChatMessage{{Role: domain.RoleSystem, Content: system}}

	if len(args) > 0 {
		question := strings.Join(args, " ")
		answer, _, err := chat.Ask(ctx, history, question)
		if err != nil {
			return err
		}
		cmd.Println(answer)
		return nil
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("Chatting with bucket %q", bucket.Name)))
	cmd.Println(dimStyle.Render("Type your question, or 'exit' to quit."))
	cmd.Println()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		cmd.Print(labelStyle.Render("you> "))
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, updated, err := chat.Ask(ctx, history, question)
		if errors.Is(err, domain.ErrEmptyQuery) {
			continue
		}
		if err != nil {
			cmd.Println(errorStyle.Render("error: " + err.Error()))
			continue
		}

		history = updated
		cmd.Println()
		cmd.Println(answer)
		cmd.Println()
	}

	return scanner.Err()
}
