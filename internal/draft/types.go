// Package draft tracks a structured petition draft through its lifecycle:
// generation, validation display, optional finalization, and export.
// The draft object is separate from the chat thread; user-visible outcomes
// of lifecycle actions are appended to the session store as turns.
package draft

import "strings"

// State is the lifecycle position of the current draft.
type State string

const (
	// StateEmpty means no draft has been generated yet.
	StateEmpty State = "empty"
	// StateGenerating means a generation request is in flight.
	StateGenerating State = "generating"
	// StateReady means a draft exists and can be finalized or exported.
	StateReady State = "ready"
	// StateFinalizing means a finalization request is in flight.
	StateFinalizing State = "finalizing"
	// StateFinalized means the draft has been approved. No further edits.
	StateFinalized State = "finalized"
)

// Tier classifies a validation score for display.
type Tier string

const (
	TierPass Tier = "pass"
	TierWarn Tier = "warn"
	TierFail Tier = "fail"
)

// ClassifyScore maps an overall validation score onto its display tier.
// The 0.90 and 0.75 boundaries are inclusive lower bounds of pass and warn.
func ClassifyScore(score float64) Tier {
	switch {
	case score >= 0.90:
		return TierPass
	case score >= 0.75:
		return TierWarn
	default:
		return TierFail
	}
}

// CaseData is the structured form input for draft generation.
type CaseData struct {
	CaseType     string
	Jurisdiction string
	Facts        string
	Petitioner   string
	Respondent   string
	Prayers      []string
	Annexures    []string
}

// HasFacts reports whether the case facts are non-empty. Generation is
// refused without facts.
func (c CaseData) HasFacts() bool {
	return strings.TrimSpace(c.Facts) != ""
}

// Approver identifies who signs off on a finalization.
type Approver struct {
	Name  string
	BarID string
}

// Complete reports whether both approver fields are filled in. Finalization
// is refused otherwise.
func (a Approver) Complete() bool {
	return strings.TrimSpace(a.Name) != "" && strings.TrimSpace(a.BarID) != ""
}
