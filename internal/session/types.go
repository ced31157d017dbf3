// Package session holds the in-memory state of one petition drafting
// conversation and the controllers that mutate it. The store is the single
// owner of mutable session state; controllers go through it for every
// change, and turns are append-only once recorded.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn in the conversation thread.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleError     Role = "error"
	RoleWarning   Role = "warning"
)

// Turn is one exchange unit in the conversation thread.
// Turns are append-only and ordered by creation time; feedback state is
// tracked on the store, never inside the turn.
type Turn struct {
	// ID is a client-assigned identifier, unique within the session.
	ID string `json:"id"`
	// Role is the author of this turn.
	Role Role `json:"role"`
	// Content is the turn text. Assistant content may contain markdown and
	// is treated as untrusted for any markup-aware rendering.
	Content string `json:"content"`
	// SessionRef correlates this turn to a backend conversation, when the
	// backend supplied one. Error turns never carry a SessionRef.
	SessionRef string `json:"session_ref,omitempty"`
	// LegalRefs are supporting-citation excerpts returned with this turn.
	LegalRefs []string `json:"legal_refs,omitempty"`
	// Timestamp is assigned client-side at append.
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a turn with a fresh ID and the current time.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Rating is a human thumbs-up/down signal on an assistant turn.
type Rating string

const (
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)
