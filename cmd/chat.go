package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hearthside/carekb/internal/chatbot"
	"github.com/hearthside/carekb/internal/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive terminal chat session",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger()
	service := newChatService(cmd.Context(), cfg, logger, nil)
	conversationID := uuid.NewString()

	fmt.Println("carekb – terminal chat")
	fmt.Println("Type a concern and press Enter. Type 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if lower := strings.ToLower(message); lower == "exit" || lower == "quit" {
			return nil
		}

		resp := service.Chat(cmd.Context(), chatbot.ChatRequest{
			ConversationID: conversationID,
			Message:        message,
		})

		fmt.Println("\nBot:")
		if resp.Answer != "" {
			fmt.Println(resp.Answer)
		} else if resp.Error != "" {
			fmt.Println(resp.Error)
		} else {
			fmt.Println("No answer returned.")
		}
		fmt.Printf("(backend = %s)\n\n", resp.Backend)
	}
}
