package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/verdictlabs/plead/internal/api"
	"github.com/verdictlabs/plead/internal/draft"
	"github.com/verdictlabs/plead/internal/session"
)

// renderTurn prints a freshly appended turn. It is registered as the
// store's append observer; user turns are skipped since the user just typed
// them.
func renderTurn(t session.Turn) {
	switch t.Role {
	case session.RoleUser:
		return
	case session.RoleAssistant:
		fmt.Printf("\n%s\n", t.Content)
		if len(t.LegalRefs) > 0 {
			fmt.Println("\n📚 Legal context:")
			for _, ref := range t.LegalRefs {
				fmt.Printf("  • %s\n", ref)
			}
		}
	case session.RoleSystem:
		fmt.Printf("\nℹ️  %s\n", t.Content)
	case session.RoleWarning:
		fmt.Printf("\n⚠️  %s\n", t.Content)
	case session.RoleError:
		fmt.Printf("\n❌ %s\n", t.Content)
	}
}

// tierColor maps a validation tier onto a terminal color.
func tierColor(tier draft.Tier) text.Colors {
	switch tier {
	case draft.TierPass:
		return text.Colors{text.FgGreen}
	case draft.TierWarn:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgRed}
	}
}

// renderValidation prints the draft's validation checks and overall score.
func renderValidation(v api.Validation) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Check", "Status", "Message"})
	for _, c := range v.Checks {
		tw.AppendRow(table.Row{c.Name, string(c.Status), c.Message})
	}
	tw.Render()

	tier := draft.ClassifyScore(v.OverallScore)
	fmt.Printf("Overall score: %s\n", tierColor(tier).Sprintf("%.2f (%s)", v.OverallScore, tier))
}

// renderProvenance prints the draft's supporting citations.
func renderProvenance(citations []api.Citation) {
	if len(citations) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Source", "Section", "Page", "Score", "Excerpt"})
	for _, c := range citations {
		tw.AppendRow(table.Row{c.SourceTitle, c.Section, c.PageNumber,
			fmt.Sprintf("%.2f", c.SimilarityScore), truncate(c.Excerpt, 60)})
	}
	tw.Render()
}

// renderDraft prints a summary of the current draft.
func renderDraft(d *api.Draft, state draft.State) {
	fmt.Printf("\n📄 Draft %s (%s)\n", d.DraftID, state)
	if d.TemplateVersion != "" {
		fmt.Printf("   Template: %s\n", d.TemplateVersion)
	}
	fmt.Printf("   Coverage: %.2f\n\n", d.CoverageScore)
	for _, s := range d.Sections {
		fmt.Printf("── %s ──\n%s\n\n", s.Title, s.Content)
	}
	renderValidation(d.Validation)
	renderProvenance(d.Provenance)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
