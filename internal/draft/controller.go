package draft

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verdictlabs/plead/internal/api"
	"github.com/verdictlabs/plead/internal/session"
)

// Service is the slice of the backend client the draft lifecycle depends on.
type Service interface {
	GenerateDraft(ctx context.Context, req api.DraftRequest) (*api.Draft, error)
	FinalizeDraft(ctx context.Context, req api.FinalizeRequest) (*api.FinalizeResult, error)
	ExportDocument(ctx context.Context, draftID string) ([]byte, error)
}

// Lifecycle owns the draft object and its state transitions. A failed
// generation or finalization falls back to the previous state; the user may
// retry. Errors never propagate past this controller: outcomes are appended
// to the session store as warning, error, or system turns.
type Lifecycle struct {
	mu    sync.Mutex
	state State
	draft *api.Draft

	svc   Service
	store *session.Store
	log   *slog.Logger
}

// NewLifecycle creates a lifecycle controller in the empty state.
func NewLifecycle(svc Service, store *session.Store, log *slog.Logger) *Lifecycle {
	if log == nil {
		log = slog.Default()
	}
	return &Lifecycle{state: StateEmpty, svc: svc, store: store, log: log}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Draft returns the current draft, or nil when none exists.
func (l *Lifecycle) Draft() *api.Draft {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draft
}

// Generate requests a new structured draft from the given case data.
//
// Empty facts refuse the action before any request is sent. Only one
// generation runs at a time. On success the previous draft, if any, is
// replaced wholesale; on failure it is left untouched and an error turn is
// appended. Returns the new draft, or nil when refused or failed.
func (l *Lifecycle) Generate(ctx context.Context, data CaseData) *api.Draft {
	if !data.HasFacts() {
		l.store.Append(session.NewTurn(session.RoleWarning,
			"Please describe the case facts before generating a draft."))
		return nil
	}

	l.mu.Lock()
	if l.state == StateGenerating {
		l.mu.Unlock()
		l.log.Debug("generation refused, request already in flight")
		return nil
	}
	prev := l.state
	l.state = StateGenerating
	l.mu.Unlock()

	d, err := l.svc.GenerateDraft(ctx, api.DraftRequest{
		CaseType:     data.CaseType,
		Jurisdiction: data.Jurisdiction,
		Facts:        data.Facts,
		Parties:      api.Parties{Petitioner: data.Petitioner, Respondent: data.Respondent},
		Prayers:      data.Prayers,
		// The contract wants annexures as an array even when empty.
		Annexures: append([]string{}, data.Annexures...),
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = prev
		l.log.Warn("draft generation failed", "error", err)
		l.store.Append(session.NewTurn(session.RoleError,
			fmt.Sprintf("Draft generation failed: %v", err)))
		return nil
	}

	l.draft = d
	l.state = StateReady
	return d
}

// Finalize marks the current draft approved by the given approver.
//
// Requires a draft with the matching ID in the ready state and a complete
// approver identity; otherwise the action aborts with a warning turn and no
// request is sent. On failure the draft stays ready.
func (l *Lifecycle) Finalize(ctx context.Context, draftID string, approver Approver, notes string) *api.FinalizeResult {
	l.mu.Lock()
	if l.draft == nil || l.state != StateReady || l.draft.DraftID != draftID {
		l.mu.Unlock()
		l.store.Append(session.NewTurn(session.RoleWarning,
			"No matching draft is ready to finalize."))
		return nil
	}
	if !approver.Complete() {
		l.mu.Unlock()
		l.store.Append(session.NewTurn(session.RoleWarning,
			"Finalization requires both the approver name and bar ID."))
		return nil
	}
	l.state = StateFinalizing
	l.mu.Unlock()

	result, err := l.svc.FinalizeDraft(ctx, api.FinalizeRequest{
		DraftID:      draftID,
		ApproverName: approver.Name,
		ApproverID:   approver.BarID,
		Notes:        notes,
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = StateReady
		l.log.Warn("finalization failed", "error", err, "draft_id", draftID)
		l.store.Append(session.NewTurn(session.RoleError,
			fmt.Sprintf("Finalization failed: %v", err)))
		return nil
	}

	l.state = StateFinalized
	l.store.Append(session.NewTurn(session.RoleSystem,
		fmt.Sprintf("Draft %s finalized by %s (status: %s).", result.DraftID, approver.Name, result.Status)))
	return result
}

// ExportFilename derives the save-as filename for a draft's rendered
// document.
func ExportFilename(draftID string) string {
	return "draft-" + draftID + ".pdf"
}

// Export fetches the rendered document for the current draft. On failure an
// error turn is appended and ok is false. The caller performs the save-as
// action with the returned filename and payload.
func (l *Lifecycle) Export(ctx context.Context) (filename string, data []byte, ok bool) {
	l.mu.Lock()
	d := l.draft
	l.mu.Unlock()

	if d == nil {
		l.store.Append(session.NewTurn(session.RoleWarning,
			"No draft to export. Generate one first."))
		return "", nil, false
	}

	payload, err := l.svc.ExportDocument(ctx, d.DraftID)
	if err != nil {
		l.log.Warn("export failed", "error", err, "draft_id", d.DraftID)
		l.store.Append(session.NewTurn(session.RoleError,
			fmt.Sprintf("Export failed: %v", err)))
		return "", nil, false
	}
	return ExportFilename(d.DraftID), payload, true
}
