package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recipedelight/delight/internal/adapters/driven/speech"
	"github.com/recipedelight/delight/internal/core/domain"
)

var (
	chatContextKey string
	chatRecipe     string
	chatVoice      bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the cooking assistant",
	Long: `Each conversation is keyed by a context: "general" for free questions,
or a meal ID for questions about one recipe. History is kept locally.`,
}

var chatAskCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the chef a question",
	Long: `Sends a question and prints the reply. The question and reply are
appended to the conversation history.

Use --recipe with a meal conversation to give the assistant the recipe
name on the first question. Use --voice to dictate the question with the
configured speech command.`,
	Args: cobra.ArbitraryArgs,
	RunE: runChatAsk,
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Print a conversation",
	Args:  cobra.NoArgs,
	RunE:  runChatHistory,
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete a conversation",
	Args:  cobra.NoArgs,
	RunE:  runChatClear,
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations with history",
	Args:  cobra.NoArgs,
	RunE:  runChatList,
}

func init() {
	for _, c := range []*cobra.Command{chatAskCmd, chatHistoryCmd, chatClearCmd} {
		c.Flags().StringVarP(&chatContextKey, "context-key", "k", domain.ContextGeneral, "conversation key (general or a meal ID)")
	}
	chatAskCmd.Flags().StringVar(&chatRecipe, "recipe", "", "recipe name used on the first question")
	chatAskCmd.Flags().BoolVar(&chatVoice, "voice", false, "dictate the question")

	chatCmd.AddCommand(chatAskCmd)
	chatCmd.AddCommand(chatHistoryCmd)
	chatCmd.AddCommand(chatClearCmd)
	chatCmd.AddCommand(chatListCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChatAsk(cmd *cobra.Command, args []string) error {
	if err := requireChat(); err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if chatVoice {
		if recognizer == nil {
			return errors.New("speech recognition not configured")
		}
		cmd.Println("Listening...")
		heard, err := recognizer.Listen(cmd.Context())
		if err != nil {
			// Shown as text, not a failure of the command.
			cmd.Println(speech.ErrorText(err))
			return nil
		}
		cmd.Printf("You said: %s\n", heard)
		question = heard
	}
	if question == "" {
		return errors.New("nothing to ask: pass a question or use --voice")
	}

	reply, err := chatService.SendMessage(cmd.Context(), question, chatContextKey, chatRecipe)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	cmd.Println(reply.Content)
	return nil
}

func runChatHistory(cmd *cobra.Command, _ []string) error {
	if err := requireChat(); err != nil {
		return err
	}

	history, err := chatService.LoadHistory(cmd.Context(), chatContextKey)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(history) == 0 {
		cmd.Printf("No messages in %s.\n", chatContextKey)
		return nil
	}

	for i := range history {
		who := "Chef"
		if history[i].Role == domain.ChatRoleUser {
			who = "You"
		}
		cmd.Printf("%s [%s]:\n%s\n\n", who, history[i].CreatedAt.Local().Format("2006-01-02 15:04"), history[i].Content)
	}
	return nil
}

func runChatClear(cmd *cobra.Command, _ []string) error {
	if err := requireChat(); err != nil {
		return err
	}

	if err := chatService.ClearHistory(cmd.Context(), chatContextKey); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	cmd.Printf("Cleared conversation: %s\n", chatContextKey)
	return nil
}

func runChatList(cmd *cobra.Command, _ []string) error {
	if err := requireChat(); err != nil {
		return err
	}

	keys, err := chatService.Conversations(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}
	if len(keys) == 0 {
		cmd.Println("No conversations yet.")
		return nil
	}
	cmd.Println("Conversations:")
	for _, k := range keys {
		cmd.Printf("  %s\n", k)
	}
	return nil
}
