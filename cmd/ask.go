package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hearthside/carekb/internal/config"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the knowledge base a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger()
	service := newChatService(cmd.Context(), cfg, logger, nil)

	question := strings.Join(args, " ")
	result := service.Query(cmd.Context(), question)

	if result.Answer != "" {
		fmt.Println(result.Answer)
	} else {
		fmt.Println(result.Error)
	}
	fmt.Printf("(backend = %s)\n", result.Backend)
	return nil
}
