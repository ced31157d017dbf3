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

	"github.com/verdictlabs/plead/internal/draft"
	"github.com/verdictlabs/plead/internal/logging"
	"github.com/verdictlabs/plead/internal/session"
)

var (
	// draft-specific flags
	flagCaseType     string
	flagJurisdiction string
	flagFacts        string
	flagPetitioner   string
	flagRespondent   string
	flagPrayers      []string
	flagAnnexures    []string
)

// draftCmd represents the draft command
var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Structured petition drafting workflow",
	Long: `Start the structured form-plus-chat drafting workflow.

Case data can be supplied via flags or edited interactively; /generate
produces a validated draft, /finalize marks it approved, and /export saves
the rendered document. Free text is sent as chat to refine the case.

Commands:
  /generate                - Generate a draft from the current case data
  /show                    - Show the current draft with validation results
  /finalize NAME BAR_ID    - Finalize the draft with an approver identity
  /export                  - Save the rendered document next to you
  /preview                 - Write a sanitized HTML preview of the draft
  /facts TEXT              - Replace the case facts
  /prayer TEXT             - Add a prayer for relief
  /templates               - List available case types
  /quit, /exit             - Exit`,
	RunE: runDraft,
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().StringVar(&flagCaseType, "case-type", "", "Case type (default from config)")
	draftCmd.Flags().StringVar(&flagJurisdiction, "jurisdiction", "", "Jurisdiction (default from config)")
	draftCmd.Flags().StringVar(&flagFacts, "facts", "", "Case facts")
	draftCmd.Flags().StringVar(&flagPetitioner, "petitioner", "", "Petitioner name")
	draftCmd.Flags().StringVar(&flagRespondent, "respondent", "", "Respondent name")
	draftCmd.Flags().StringArrayVar(&flagPrayers, "prayer", nil, "Prayer for relief (repeatable)")
	draftCmd.Flags().StringArrayVar(&flagAnnexures, "annexure", nil, "Annexure reference (repeatable)")
}

// draftSession bundles the state the structured loop operates on.
type draftSession struct {
	store     *session.Store
	conv      *session.Conversation
	lifecycle *draft.Lifecycle
	catalog   *draft.Catalog

	mu   sync.Mutex
	data draft.CaseData
}

func (ds *draftSession) caseData() draft.CaseData {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.data
}

func (ds *draftSession) updateCaseData(fn func(*draft.CaseData)) {
	ds.mu.Lock()
	fn(&ds.data)
	ds.mu.Unlock()
}

func runDraft(cmd *cobra.Command, args []string) error {
	client := newAPIClient()

	store := session.NewStore()
	store.SetOnAppend(renderTurn)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Backend reachability and template catalog load in the background;
	// input is available immediately.
	catalog, _ := draft.Prefetch(ctx, client, store, logging.Draft())

	ds := &draftSession{
		store:     store,
		conv:      session.NewConversation(store, &session.ChatSender{Client: client}, logging.Chat()),
		lifecycle: draft.NewLifecycle(client, store, logging.Draft()),
		catalog:   catalog,
		data: draft.CaseData{
			CaseType:     firstNonEmpty(flagCaseType, cfg.Defaults.CaseType),
			Jurisdiction: firstNonEmpty(flagJurisdiction, cfg.Defaults.Jurisdiction),
			Facts:        flagFacts,
			Petitioner:   flagPetitioner,
			Respondent:   flagRespondent,
			Prayers:      flagPrayers,
			Annexures:    flagAnnexures,
		},
	}

	return runDraftLoop(ctx, ds)
}

// draftCommands defines the available slash commands with their descriptions.
var draftCommands = []struct {
	name        string
	description string
}{
	{"/help", "Show available commands"},
	{"/generate", "Generate a draft from the current case data"},
	{"/show", "Show the current draft with validation results"},
	{"/finalize", "Finalize the draft: /finalize NAME BAR_ID"},
	{"/export", "Save the rendered document"},
	{"/preview", "Write a sanitized HTML preview of the draft"},
	{"/facts", "Replace the case facts: /facts TEXT"},
	{"/casetype", "Set the case type"},
	{"/jurisdiction", "Set the jurisdiction"},
	{"/petitioner", "Set the petitioner name"},
	{"/respondent", "Set the respondent name"},
	{"/prayer", "Add a prayer for relief"},
	{"/templates", "List available case types"},
	{"/quit", "Exit"},
	{"/exit", "Exit (alias)"},
}

func runDraftLoop(ctx context.Context, ds *draftSession) error {
	rl := readline.NewShell()
	rl.Prompt.Primary(func() string { return "plead/draft> " })

	history := readline.NewInMemoryHistory()
	rl.History.Add("default", history)

	rl.Completer = func(line []rune, cursor int) readline.Completions {
		return completeDraftInput(string(line), cursor)
	}

	fmt.Println("\n⚖️  Fill in the case with /facts and friends, then /generate. Free text chats with the service.")

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
			if handled := handleDraftCommand(ctx, ds, line); handled {
				continue
			}
		}

		ds.conv.Submit(ctx, line)
		fmt.Println()
	}
}

func handleDraftCommand(ctx context.Context, ds *draftSession, line string) bool {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return false
	}

	rest := func(cmd string) string {
		return strings.TrimSpace(strings.TrimPrefix(line, "/"+cmd))
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		fmt.Println("👋 Goodbye!")
		os.Exit(0)
	case "generate":
		if d := ds.lifecycle.Generate(ctx, ds.caseData()); d != nil {
			renderDraft(d, ds.lifecycle.State())
		}
	case "show":
		d := ds.lifecycle.Draft()
		if d == nil {
			fmt.Println("No draft yet. Use /generate first.")
			return true
		}
		renderDraft(d, ds.lifecycle.State())
	case "finalize":
		if len(fields) < 3 {
			fmt.Println("Usage: /finalize NAME BAR_ID")
			return true
		}
		d := ds.lifecycle.Draft()
		if d == nil {
			fmt.Println("No draft yet. Use /generate first.")
			return true
		}
		approver := draft.Approver{Name: fields[1], BarID: fields[2]}
		notes := strings.Join(fields[3:], " ")
		if result := ds.lifecycle.Finalize(ctx, d.DraftID, approver, notes); result != nil {
			fmt.Printf("✅ Draft %s is now %s.\n", result.DraftID, result.Status)
		}
	case "export":
		filename, data, ok := ds.lifecycle.Export(ctx)
		if !ok {
			return true
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			fmt.Printf("❌ Could not write %s: %v\n", filename, err)
			return true
		}
		fmt.Printf("💾 Document saved to %s\n", filename)
	case "preview":
		writePreview(ds)
	case "facts":
		ds.updateCaseData(func(c *draft.CaseData) { c.Facts = rest("facts") })
		fmt.Println("📝 Facts updated.")
	case "casetype":
		ds.updateCaseData(func(c *draft.CaseData) { c.CaseType = rest("casetype") })
	case "jurisdiction":
		ds.updateCaseData(func(c *draft.CaseData) { c.Jurisdiction = rest("jurisdiction") })
	case "petitioner":
		ds.updateCaseData(func(c *draft.CaseData) { c.Petitioner = rest("petitioner") })
	case "respondent":
		ds.updateCaseData(func(c *draft.CaseData) { c.Respondent = rest("respondent") })
	case "prayer":
		if text := rest("prayer"); text != "" {
			ds.updateCaseData(func(c *draft.CaseData) { c.Prayers = append(c.Prayers, text) })
		}
	case "templates":
		fmt.Println("Available case types:")
		for _, t := range ds.catalog.CaseTypes() {
			fmt.Printf("  • %s\n", t)
		}
	case "help", "h", "?":
		printDraftHelp()
	default:
		fmt.Printf("❓ Unknown command: %s (use /help for available commands)\n", fields[0])
	}
	return true
}

func writePreview(ds *draftSession) {
	d := ds.lifecycle.Draft()
	if d == nil {
		fmt.Println("No draft yet. Use /generate first.")
		return
	}

	filename := draft.PreviewFilename(d.DraftID)
	f, err := os.Create(filename)
	if err != nil {
		fmt.Printf("❌ Could not write %s: %v\n", filename, err)
		return
	}
	defer f.Close()

	if err := draft.WritePreview(f, d, nil); err != nil {
		fmt.Printf("❌ Preview failed: %v\n", err)
		return
	}
	fmt.Printf("💾 Preview saved to %s\n", filename)
}

func printDraftHelp() {
	fmt.Println(`
Available commands:
  /generate              - Generate a draft from the current case data
  /show                  - Show the current draft with validation results
  /finalize NAME BAR_ID  - Finalize the draft with an approver identity
  /export                - Save the rendered document
  /preview               - Write a sanitized HTML preview of the draft
  /facts TEXT            - Replace the case facts
  /casetype TEXT         - Set the case type
  /jurisdiction TEXT     - Set the jurisdiction
  /petitioner TEXT       - Set the petitioner name
  /respondent TEXT       - Set the respondent name
  /prayer TEXT           - Add a prayer for relief
  /templates             - List available case types
  /quit, /exit           - Exit
  /help, /h, /?          - Show this help message

Free text is sent to the drafting service as chat.`)
}

// completeDraftInput provides tab completion for the draft loop.
func completeDraftInput(line string, cursor int) readline.Completions {
	if cursor > len(line) {
		cursor = len(line)
	}
	text := line[:cursor]

	if !strings.HasPrefix(text, "/") {
		return readline.Completions{}
	}

	var pairs []string
	for _, cmd := range draftCommands {
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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
