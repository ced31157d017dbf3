package session

import "sync"

// Store holds the state of the active session: the ordered turn thread, the
// backend session reference, the request-in-flight flag, the single open
// feedback editor, and the transient feedback notice.
//
// All mutations are atomic append-or-replace operations behind one mutex.
// The open feedback editor is a single optional field so the one-editor
// invariant is enforced structurally.
type Store struct {
	mu         sync.Mutex
	sessionRef string
	turns      []Turn
	busy       bool

	// openFeedbackFor holds the ID of the turn whose comment editor is
	// open, or "" when no editor is open.
	openFeedbackFor string
	comment         string
	notice          string

	// onAppend, when set, is invoked after every append so the view layer
	// can react (rendering, auto-scroll). Called outside the lock.
	onAppend func(Turn)
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// SetOnAppend registers the append notification callback.
// The callback runs synchronously after each append, outside the store lock.
func (s *Store) SetOnAppend(fn func(Turn)) {
	s.mu.Lock()
	s.onAppend = fn
	s.mu.Unlock()
}

// Append records a turn at the end of the thread and fires the append
// notification. The thread is never reordered or mutated in place.
func (s *Store) Append(t Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, t)
	fn := s.onAppend
	s.mu.Unlock()

	if fn != nil {
		fn(t)
	}
}

// Turns returns a copy of the thread in append order.
func (s *Store) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the thread.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// History returns up to the last n turns of either role, oldest first.
func (s *Store) History(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(s.turns)-start)
	copy(out, s.turns[start:])
	return out
}

// LastTurn returns the most recent turn with the given role, if any.
func (s *Store) LastTurn(role Role) (Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == role {
			return s.turns[i], true
		}
	}
	return Turn{}, false
}

// SessionRef returns the backend-assigned session reference, or "" before
// the first successful exchange.
func (s *Store) SessionRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionRef
}

// SetSessionRef records the backend-assigned session reference.
func (s *Store) SetSessionRef(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref != "" {
		s.sessionRef = ref
	}
}

// TryBeginRequest attempts to claim the single outstanding-request slot.
// It returns false if a request is already in flight.
func (s *Store) TryBeginRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// EndRequest releases the outstanding-request slot.
func (s *Store) EndRequest() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Busy reports whether a request is currently in flight.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// OpenFeedback opens the comment editor for the given turn, implicitly
// closing any editor open for another turn and clearing the comment buffer.
func (s *Store) OpenFeedback(turnID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openFeedbackFor != turnID {
		s.comment = ""
	}
	s.openFeedbackFor = turnID
}

// OpenFeedbackFor returns the ID of the turn whose comment editor is open,
// or "" when none is.
func (s *Store) OpenFeedbackFor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openFeedbackFor
}

// CloseFeedback closes the comment editor and clears the comment buffer.
func (s *Store) CloseFeedback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openFeedbackFor = ""
	s.comment = ""
}

// SetComment stores the draft comment for the open feedback editor.
func (s *Store) SetComment(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comment = text
}

// Comment returns the draft comment for the open feedback editor.
func (s *Store) Comment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comment
}

// SetNotice stores the transient feedback notice.
func (s *Store) SetNotice(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = text
}

// Notice returns the current transient notice, or "" when none is showing.
func (s *Store) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// ClearNotice removes the transient notice.
func (s *Store) ClearNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = ""
}
