package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/verdictlabs/plead/internal/api"
)

// fakeFeedbackSender records submitted feedback requests.
type fakeFeedbackSender struct {
	mu       sync.Mutex
	err      error
	requests []api.FeedbackRequest
}

func (f *fakeFeedbackSender) SubmitFeedback(_ context.Context, req api.FeedbackRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeFeedbackSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func assistantTurn(content, sessionRef string) Turn {
	t := NewTurn(RoleAssistant, content)
	t.SessionRef = sessionRef
	return t
}

func TestFeedback_UpSubmitsImmediately(t *testing.T) {
	store := NewStore()
	sender := &fakeFeedbackSender{}
	fb := NewFeedback(store, sender, nil)

	turn := assistantTurn("PETITION...", "abc123")
	fb.Rate(context.Background(), turn, RatingUp)

	if sender.count() != 1 {
		t.Fatalf("sender received %d requests, want 1", sender.count())
	}
	req := sender.requests[0]
	if req.Rating != "up" {
		t.Errorf("rating = %q, want up", req.Rating)
	}
	if req.ConversationID != "abc123" {
		t.Errorf("conversationId = %q, want abc123", req.ConversationID)
	}
	if req.Comment != nil {
		t.Errorf("comment = %v, want nil", *req.Comment)
	}
	if req.PetitionText != "PETITION..." {
		t.Errorf("petitionText = %q", req.PetitionText)
	}
}

func TestFeedback_DownOpensEditorWithoutRequest(t *testing.T) {
	store := NewStore()
	sender := &fakeFeedbackSender{}
	fb := NewFeedback(store, sender, nil)

	turn := assistantTurn("text", "s-1")
	fb.Rate(context.Background(), turn, RatingDown)

	if sender.count() != 0 {
		t.Errorf("sender received %d requests, want 0", sender.count())
	}
	if store.OpenFeedbackFor() != turn.ID {
		t.Errorf("editor open for %q, want %q", store.OpenFeedbackFor(), turn.ID)
	}
}

func TestFeedback_SecondDownSubmitsAndClosesEditor(t *testing.T) {
	store := NewStore()
	sender := &fakeFeedbackSender{}
	fb := NewFeedback(store, sender, nil)
	fb.ttl = 10 * time.Millisecond

	turn := assistantTurn("text", "s-1")
	fb.Rate(context.Background(), turn, RatingDown)
	fb.SetComment("too generic")
	fb.Rate(context.Background(), turn, RatingDown)

	if sender.count() != 1 {
		t.Fatalf("sender received %d requests, want exactly 1", sender.count())
	}
	req := sender.requests[0]
	if req.Comment == nil || *req.Comment != "too generic" {
		t.Errorf("comment = %v, want \"too generic\"", req.Comment)
	}
	if store.OpenFeedbackFor() != "" {
		t.Error("editor still open after submission")
	}
	if store.Comment() != "" {
		t.Error("comment buffer not cleared after submission")
	}
}

func TestFeedback_SwitchingTurnsClosesOtherEditorWithoutSubmitting(t *testing.T) {
	store := NewStore()
	sender := &fakeFeedbackSender{}
	fb := NewFeedback(store, sender, nil)

	turnA := assistantTurn("a", "s-1")
	turnB := assistantTurn("b", "s-1")

	fb.Rate(context.Background(), turnA, RatingDown)
	fb.Rate(context.Background(), turnB, RatingDown)

	if sender.count() != 0 {
		t.Errorf("sender received %d requests while switching editors, want 0", sender.count())
	}
	if store.OpenFeedbackFor() != turnB.ID {
		t.Errorf("editor open for %q, want turn B", store.OpenFeedbackFor())
	}
}

func TestFeedback_NoticeAutoDismisses(t *testing.T) {
	store := NewStore()
	sender := &fakeFeedbackSender{}
	fb := NewFeedback(store, sender, nil)
	fb.ttl = 20 * time.Millisecond

	fb.Rate(context.Background(), assistantTurn("text", "s-1"), RatingUp)

	if store.Notice() == "" {
		t.Fatal("no notice after successful submission")
	}

	deadline := time.After(2 * time.Second)
	for store.Notice() != "" {
		select {
		case <-deadline:
			t.Fatal("notice never auto-dismissed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestFeedback_FailureLeavesEditorOpen(t *testing.T) {
	store := NewStore()
	sender := &fakeFeedbackSender{err: errors.New("collector down")}
	fb := NewFeedback(store, sender, nil)

	turn := assistantTurn("text", "s-1")
	fb.Rate(context.Background(), turn, RatingDown) // opens editor
	fb.SetComment("note")
	fb.Rate(context.Background(), turn, RatingDown) // submission fails

	if store.OpenFeedbackFor() != turn.ID {
		t.Error("editor state changed by a failed submission")
	}
	if store.Comment() != "note" {
		t.Errorf("comment buffer = %q after failure, want preserved", store.Comment())
	}
	if store.Notice() != "" {
		t.Error("notice shown despite failed submission")
	}
}

func TestFeedback_EmptyCommentSubmitsNil(t *testing.T) {
	store := NewStore()
	sender := &fakeFeedbackSender{}
	fb := NewFeedback(store, sender, nil)

	turn := assistantTurn("text", "s-1")
	fb.Rate(context.Background(), turn, RatingDown)
	fb.Rate(context.Background(), turn, RatingDown)

	if sender.count() != 1 {
		t.Fatalf("sender received %d requests, want 1", sender.count())
	}
	if sender.requests[0].Comment != nil {
		t.Errorf("comment = %v, want nil for empty buffer", *sender.requests[0].Comment)
	}
}
