package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/verdictlabs/plead/internal/api"
)

// noticeTTL is how long the feedback success notice stays visible.
const noticeTTL = 3 * time.Second

// feedbackNotice is the transient message shown after a successful
// submission.
const feedbackNotice = "Thank you for your feedback."

// FeedbackSender is the slice of the backend client the feedback flow
// depends on.
type FeedbackSender interface {
	SubmitFeedback(ctx context.Context, req api.FeedbackRequest) error
}

// Feedback captures thumbs-up/down ratings on assistant turns.
//
// A down rating is a two-step flow: the first rating opens the comment
// editor for that turn (no request), a second down rating on the same turn
// submits, with whatever comment has been typed. Up ratings submit
// immediately. At most one comment editor is open across the whole session.
type Feedback struct {
	store  *Store
	sender FeedbackSender
	log    *slog.Logger

	// ttl overrides noticeTTL; tests shorten it.
	ttl time.Duration
}

// NewFeedback creates a feedback controller over the given store.
func NewFeedback(store *Store, sender FeedbackSender, log *slog.Logger) *Feedback {
	if log == nil {
		log = slog.Default()
	}
	return &Feedback{store: store, sender: sender, log: log, ttl: noticeTTL}
}

// Rate records a rating for the given assistant turn.
//
// Submission failures are logged and otherwise invisible: no retry, and the
// editor state is left exactly as it was.
func (f *Feedback) Rate(ctx context.Context, turn Turn, rating Rating) {
	if rating == RatingDown && f.store.OpenFeedbackFor() != turn.ID {
		f.store.OpenFeedback(turn.ID)
		return
	}

	var comment *string
	if rating == RatingDown {
		if text := strings.TrimSpace(f.store.Comment()); text != "" {
			comment = &text
		}
	}

	err := f.sender.SubmitFeedback(ctx, api.FeedbackRequest{
		ConversationID: turn.SessionRef,
		Rating:         string(rating),
		Comment:        comment,
		PetitionText:   turn.Content,
	})
	if err != nil {
		f.log.Warn("feedback submission failed", "error", err, "rating", rating)
		return
	}

	f.store.CloseFeedback()
	f.store.SetNotice(feedbackNotice)
	time.AfterFunc(f.ttl, f.store.ClearNotice)
}

// SetComment stores the draft comment for the currently open editor.
func (f *Feedback) SetComment(text string) {
	f.store.SetComment(text)
}
