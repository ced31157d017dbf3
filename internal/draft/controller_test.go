package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/verdictlabs/plead/internal/api"
	"github.com/verdictlabs/plead/internal/session"
)

// fakeService is a scriptable backend for lifecycle tests.
type fakeService struct {
	mu sync.Mutex

	draft       *api.Draft
	generateErr error
	finalize    *api.FinalizeResult
	finalizeErr error
	document    []byte
	exportErr   error

	generateCalls int
	finalizeCalls int
	exportCalls   int
	lastDraftReq  api.DraftRequest
	block         chan struct{}
}

func (f *fakeService) GenerateDraft(_ context.Context, req api.DraftRequest) (*api.Draft, error) {
	f.mu.Lock()
	f.generateCalls++
	f.lastDraftReq = req
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft, f.generateErr
}

func (f *fakeService) FinalizeDraft(_ context.Context, req api.FinalizeRequest) (*api.FinalizeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalizeCalls++
	return f.finalize, f.finalizeErr
}

func (f *fakeService) ExportDocument(_ context.Context, draftID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exportCalls++
	return f.document, f.exportErr
}

func readyDraft(id string) *api.Draft {
	return &api.Draft{
		DraftID:  id,
		Sections: []api.Section{{Title: "Facts", Content: "..."}},
		Validation: api.Validation{
			OverallScore: 0.92,
			Checks:       []api.Check{{Name: "citations", Status: api.CheckStatusPass}},
		},
	}
}

func caseData() CaseData {
	return CaseData{
		CaseType:     "civil",
		Jurisdiction: "district",
		Facts:        "property dispute regarding inheritance",
		Petitioner:   "A",
		Respondent:   "B",
		Prayers:      []string{"declare ownership"},
	}
}

func TestLifecycle_GenerateWithEmptyFactsSendsNothing(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{draft: readyDraft("d-1")}
	lc := NewLifecycle(svc, store, nil)

	// Seed an existing draft, then attempt a factless regeneration
	lc.Generate(context.Background(), caseData())
	if lc.State() != StateReady {
		t.Fatalf("state = %q after seed generation, want ready", lc.State())
	}
	callsBefore := svc.generateCalls

	data := caseData()
	data.Facts = "   "
	if d := lc.Generate(context.Background(), data); d != nil {
		t.Error("factless generation returned a draft")
	}

	if svc.generateCalls != callsBefore {
		t.Errorf("factless generation issued a request (%d calls, want %d)", svc.generateCalls, callsBefore)
	}
	if lc.Draft() == nil || lc.Draft().DraftID != "d-1" {
		t.Error("existing draft was disturbed by a refused generation")
	}
	if lc.State() != StateReady {
		t.Errorf("state = %q after refusal, want ready", lc.State())
	}

	// The refusal is user-visible as a warning turn
	turns := store.Turns()
	last := turns[len(turns)-1]
	if last.Role != session.RoleWarning {
		t.Errorf("last turn role = %q, want warning", last.Role)
	}
}

func TestLifecycle_GenerateReplacesDraftWholesale(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{draft: readyDraft("d-1")}
	lc := NewLifecycle(svc, store, nil)

	if d := lc.Generate(context.Background(), caseData()); d == nil {
		t.Fatal("generation returned nil")
	}

	svc.mu.Lock()
	svc.draft = readyDraft("d-2")
	svc.mu.Unlock()

	lc.Generate(context.Background(), caseData())
	if lc.Draft().DraftID != "d-2" {
		t.Errorf("draft = %q after regeneration, want d-2", lc.Draft().DraftID)
	}
	if lc.State() != StateReady {
		t.Errorf("state = %q, want ready", lc.State())
	}
}

func TestLifecycle_GenerateFailureKeepsPreviousDraft(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{draft: readyDraft("d-1")}
	lc := NewLifecycle(svc, store, nil)
	lc.Generate(context.Background(), caseData())

	svc.mu.Lock()
	svc.generateErr = errors.New("boom")
	svc.mu.Unlock()

	if d := lc.Generate(context.Background(), caseData()); d != nil {
		t.Error("failed generation returned a draft")
	}

	if lc.Draft() == nil || lc.Draft().DraftID != "d-1" {
		t.Error("previous draft not preserved after failure")
	}
	if lc.State() != StateReady {
		t.Errorf("state = %q after failure with prior draft, want ready", lc.State())
	}

	turns := store.Turns()
	last := turns[len(turns)-1]
	if last.Role != session.RoleError {
		t.Errorf("last turn role = %q, want error", last.Role)
	}
}

func TestLifecycle_GenerateFailureFromEmptyStaysEmpty(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{generateErr: errors.New("boom")}
	lc := NewLifecycle(svc, store, nil)

	lc.Generate(context.Background(), caseData())

	if lc.State() != StateEmpty {
		t.Errorf("state = %q after first-generation failure, want empty", lc.State())
	}
	if lc.Draft() != nil {
		t.Error("draft present after failed first generation")
	}
}

func TestLifecycle_GenerateSingleFlight(t *testing.T) {
	store := session.NewStore()
	block := make(chan struct{})
	svc := &fakeService{draft: readyDraft("d-1"), block: block}
	lc := NewLifecycle(svc, store, nil)

	done := make(chan struct{})
	go func() {
		lc.Generate(context.Background(), caseData())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for lc.State() != StateGenerating {
		select {
		case <-deadline:
			t.Fatal("generation never became in-flight")
		case <-time.After(time.Millisecond):
		}
	}

	lc.Generate(context.Background(), caseData())
	svc.mu.Lock()
	got := svc.generateCalls
	svc.mu.Unlock()
	if got != 1 {
		t.Errorf("concurrent generation issued %d requests, want 1", got)
	}

	close(block)
	<-done
}

func TestLifecycle_FinalizeRequiresCompleteApprover(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{draft: readyDraft("d-1"), finalize: &api.FinalizeResult{DraftID: "d-1", Status: "finalized"}}
	lc := NewLifecycle(svc, store, nil)
	lc.Generate(context.Background(), caseData())

	if r := lc.Finalize(context.Background(), "d-1", Approver{Name: "", BarID: "BAR-1"}, ""); r != nil {
		t.Error("finalize with empty approver name returned a result")
	}

	if svc.finalizeCalls != 0 {
		t.Errorf("finalize issued %d requests with incomplete approver, want 0", svc.finalizeCalls)
	}
	if lc.State() != StateReady {
		t.Errorf("state = %q after refused finalize, want ready", lc.State())
	}
}

func TestLifecycle_FinalizeRequiresMatchingReadyDraft(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{draft: readyDraft("d-1"), finalize: &api.FinalizeResult{DraftID: "d-1", Status: "finalized"}}
	lc := NewLifecycle(svc, store, nil)

	// No draft yet
	if r := lc.Finalize(context.Background(), "d-1", Approver{Name: "J", BarID: "B"}, ""); r != nil {
		t.Error("finalize without a draft returned a result")
	}

	lc.Generate(context.Background(), caseData())

	// Wrong ID
	if r := lc.Finalize(context.Background(), "other", Approver{Name: "J", BarID: "B"}, ""); r != nil {
		t.Error("finalize with mismatched draft ID returned a result")
	}
	if svc.finalizeCalls != 0 {
		t.Errorf("refused finalizations issued %d requests, want 0", svc.finalizeCalls)
	}
}

func TestLifecycle_FinalizeSuccess(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{draft: readyDraft("d-1"), finalize: &api.FinalizeResult{DraftID: "d-1", Status: "finalized"}}
	lc := NewLifecycle(svc, store, nil)
	lc.Generate(context.Background(), caseData())

	result := lc.Finalize(context.Background(), "d-1", Approver{Name: "J. Doe", BarID: "BAR-1"}, "reviewed")
	if result == nil {
		t.Fatal("finalize returned nil")
	}
	if result.Status != "finalized" {
		t.Errorf("status = %q", result.Status)
	}
	if lc.State() != StateFinalized {
		t.Errorf("state = %q, want finalized", lc.State())
	}

	// Finalized drafts cannot be finalized again
	if r := lc.Finalize(context.Background(), "d-1", Approver{Name: "J", BarID: "B"}, ""); r != nil {
		t.Error("second finalize returned a result")
	}
}

func TestLifecycle_FinalizeFailureFallsBackToReady(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{draft: readyDraft("d-1"), finalizeErr: errors.New("boom")}
	lc := NewLifecycle(svc, store, nil)
	lc.Generate(context.Background(), caseData())

	if r := lc.Finalize(context.Background(), "d-1", Approver{Name: "J", BarID: "B"}, ""); r != nil {
		t.Error("failed finalize returned a result")
	}
	if lc.State() != StateReady {
		t.Errorf("state = %q after failed finalize, want ready", lc.State())
	}
}

func TestLifecycle_Export(t *testing.T) {
	store := session.NewStore()
	svc := &fakeService{draft: readyDraft("d-1"), document: []byte("%PDF-1.4")}
	lc := NewLifecycle(svc, store, nil)

	// No draft
	if _, _, ok := lc.Export(context.Background()); ok {
		t.Error("export without a draft reported ok")
	}

	lc.Generate(context.Background(), caseData())
	filename, data, ok := lc.Export(context.Background())
	if !ok {
		t.Fatal("export failed")
	}
	if filename != "draft-d-1.pdf" {
		t.Errorf("filename = %q, want draft-d-1.pdf", filename)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("payload = %q", string(data))
	}

	// Failure is reported as an error turn, not an ok result
	svc.mu.Lock()
	svc.exportErr = errors.New("render failed")
	svc.mu.Unlock()
	if _, _, ok := lc.Export(context.Background()); ok {
		t.Error("failed export reported ok")
	}
	turns := store.Turns()
	if turns[len(turns)-1].Role != session.RoleError {
		t.Errorf("last turn role = %q, want error", turns[len(turns)-1].Role)
	}
}
