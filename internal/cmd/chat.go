package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/reeflective/readline"
	"github.com/spf13/cobra"

	"github.com/verdictlabs/plead/internal/config"
	"github.com/verdictlabs/plead/internal/logging"
	"github.com/verdictlabs/plead/internal/session"
)

var (
	// chat-specific flags
	onceMessage string
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Free-form petition drafting conversation",
	Long: `Start a free-form conversation with the drafting service.

Each message you send extends the petition incrementally; the service
answers with updated petition text and supporting legal citations.

Use --once to send a single message and exit:
  plead chat --once "I need a civil petition for a property dispute"

Commands (interactive mode only):
  /rate up|down  - Rate the latest draft (down opens a comment editor)
  /comment TEXT  - Annotate an open down-rating before submitting
  /snippet NAME  - Insert a saved case-description snippet
  /save          - Save the conversation transcript to a file
  /quit, /exit   - Exit the chat
  /help          - Show available commands`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&onceMessage, "once", "", "Send a single message and exit (non-interactive mode)")
}

// chatSession bundles the state the interactive loop operates on.
type chatSession struct {
	store    *session.Store
	conv     *session.Conversation
	feedback *session.Feedback

	mu       sync.Mutex
	snippets []config.Snippet
}

func (cs *chatSession) setSnippets(snippets []config.Snippet) {
	cs.mu.Lock()
	cs.snippets = snippets
	cs.mu.Unlock()
}

func (cs *chatSession) snippetList() []config.Snippet {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.snippets
}

func runChat(cmd *cobra.Command, args []string) error {
	client := newAPIClient()

	store := session.NewStore()
	store.SetOnAppend(renderTurn)

	cs := &chatSession{
		store:    store,
		conv:     session.NewConversation(store, &session.GenerateSender{Client: client}, logging.Chat()),
		feedback: session.NewFeedback(store, client, logging.Feedback()),
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if onceMessage != "" {
		cs.conv.Submit(ctx, onceMessage)
		fmt.Println()
		return nil
	}

	// Load snippets and keep them current while the chat runs
	if cfg.SnippetsDir != "" {
		snippets, err := config.LoadSnippets(cfg.SnippetsDir)
		if err != nil {
			logging.ConfigLog().Warn("failed to load snippets", "error", err)
		}
		cs.setSnippets(snippets)

		watcher, err := config.NewSnippetsWatcher(cfg.SnippetsDir, logging.ConfigLog(), func() {
			reloaded, err := config.LoadSnippets(cfg.SnippetsDir)
			if err != nil {
				logging.ConfigLog().Warn("failed to reload snippets", "error", err)
				return
			}
			cs.setSnippets(reloaded)
		})
		if err == nil {
			if err := watcher.Start(); err == nil {
				defer watcher.Close()
			}
		}
	}

	return runChatLoop(ctx, cs)
}

// chatCommands defines the available slash commands with their descriptions.
var chatCommands = []struct {
	name        string
	description string
}{
	{"/help", "Show available commands"},
	{"/rate", "Rate the latest draft: /rate up or /rate down"},
	{"/comment", "Annotate an open down-rating: /comment TEXT"},
	{"/snippet", "Insert a saved case-description snippet"},
	{"/save", "Save the conversation transcript"},
	{"/quit", "Exit the chat"},
	{"/exit", "Exit the chat (alias)"},
	{"/q", "Exit the chat (alias)"},
}

func runChatLoop(ctx context.Context, cs *chatSession) error {
	rl := readline.NewShell()
	rl.Prompt.Primary(func() string { return "plead> " })

	history := readline.NewInMemoryHistory()
	rl.History.Add("default", history)

	rl.Completer = func(line []rune, cursor int) readline.Completions {
		return completeChatInput(cs, string(line), cursor)
	}

	fmt.Println("\n⚖️  Describe your case and press Enter. Use /help for commands.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				fmt.Println("\n👋 Goodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if handled := handleChatCommand(ctx, cs, line); handled {
				continue
			}
		}

		cs.conv.Submit(ctx, line)
		fmt.Println()
	}
}

func handleChatCommand(ctx context.Context, cs *chatSession, line string) bool {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		fmt.Println("👋 Goodbye!")
		os.Exit(0)
	case "rate":
		if len(fields) < 2 {
			fmt.Println("Usage: /rate up|down")
			return true
		}
		rateLatestTurn(ctx, cs, fields[1])
	case "comment":
		text := strings.TrimSpace(strings.TrimPrefix(line, "/comment"))
		if cs.store.OpenFeedbackFor() == "" {
			fmt.Println("No comment editor is open. Use /rate down first.")
			return true
		}
		cs.feedback.SetComment(text)
		fmt.Println("📝 Comment saved. Use /rate down again to submit.")
	case "snippet":
		if len(fields) < 2 {
			listSnippets(cs)
			return true
		}
		s, found := config.FindSnippet(cs.snippetList(), fields[1])
		if !found {
			fmt.Printf("❓ Unknown snippet: %s\n", fields[1])
			return true
		}
		cs.conv.Submit(ctx, s.Text)
		fmt.Println()
	case "save":
		path, err := session.SaveTranscript(cs.store, ".")
		if err != nil {
			fmt.Printf("❌ Save failed: %v\n", err)
		} else {
			fmt.Printf("💾 Transcript saved to %s\n", path)
		}
	case "help", "h", "?":
		printChatHelp()
	default:
		fmt.Printf("❓ Unknown command: %s (use /help for available commands)\n", fields[0])
	}
	return true
}

// rateLatestTurn applies a rating to the most recent assistant turn and
// reports the resulting feedback state.
func rateLatestTurn(ctx context.Context, cs *chatSession, ratingArg string) {
	var rating session.Rating
	switch strings.ToLower(ratingArg) {
	case "up":
		rating = session.RatingUp
	case "down":
		rating = session.RatingDown
	default:
		fmt.Println("Usage: /rate up|down")
		return
	}

	turn, found := cs.store.LastTurn(session.RoleAssistant)
	if !found {
		fmt.Println("Nothing to rate yet.")
		return
	}

	wasOpen := cs.store.OpenFeedbackFor() == turn.ID
	cs.feedback.Rate(ctx, turn, rating)

	if rating == session.RatingDown && !wasOpen && cs.store.OpenFeedbackFor() == turn.ID {
		fmt.Println("📝 Add a comment with /comment TEXT, or /rate down again to submit as is.")
		return
	}
	if notice := cs.store.Notice(); notice != "" {
		fmt.Printf("✅ %s\n", notice)
	}
}

func listSnippets(cs *chatSession) {
	snippets := cs.snippetList()
	if len(snippets) == 0 {
		fmt.Println("No snippets configured. Set snippets_dir in your config.")
		return
	}
	fmt.Println("Available snippets:")
	for _, s := range snippets {
		if s.Description != "" {
			fmt.Printf("  %s - %s\n", s.Name, s.Description)
		} else {
			fmt.Printf("  %s\n", s.Name)
		}
	}
}

func printChatHelp() {
	fmt.Println(`
Available commands:
  /rate up|down     - Rate the latest draft (down opens a comment editor)
  /comment TEXT     - Annotate an open down-rating before submitting
  /snippet [NAME]   - List snippets, or insert one by name
  /save             - Save the conversation transcript
  /quit, /exit, /q  - Exit the chat
  /help, /h, /?     - Show this help message

Tips:
  - Type your case description and press Enter to send it
  - Use up/down arrows for input history
  - Use Tab to autocomplete slash commands and snippet names`)
}

// completeChatInput provides tab completion for slash commands and snippet
// names.
func completeChatInput(cs *chatSession, line string, cursor int) readline.Completions {
	if cursor > len(line) {
		cursor = len(line)
	}
	text := line[:cursor]

	if !strings.HasPrefix(text, "/") {
		return readline.Completions{}
	}

	// Complete snippet names after "/snippet "
	if strings.HasPrefix(text, "/snippet ") {
		prefix := strings.TrimPrefix(text, "/snippet ")
		var pairs []string
		for _, s := range cs.snippetList() {
			if strings.HasPrefix(s.Name, prefix) {
				pairs = append(pairs, s.Name, s.Description)
			}
		}
		if len(pairs) == 0 {
			return readline.Completions{}
		}
		return readline.CompleteValuesDescribed(pairs...).Tag("snippets")
	}

	var pairs []string
	for _, cmd := range chatCommands {
		if strings.HasPrefix(cmd.name, text) {
			pairs = append(pairs, cmd.name, cmd.description)
		}
	}
	if len(pairs) == 0 {
		return readline.Completions{}
	}

	return readline.CompleteValuesDescribed(pairs...).
		Tag("commands").
		NoSpace('/')
}
