package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/verdictlabs/plead/internal/api"
	"github.com/verdictlabs/plead/internal/logging"
)

// historyWindow bounds the trailing conversational context sent with each
// generation request. It counts turns of either role.
const historyWindow = 10

// errorTurnContent is the fixed assistant-role content appended when a
// generation request fails. Error turns never carry a session reference.
const errorTurnContent = "I apologize, but I was unable to reach the drafting service. " +
	"Please check your connection and try again."

// Reply is one assistant answer produced by a Sender.
type Reply struct {
	Content    string
	SessionRef string
	LegalRefs  []string
}

// Sender turns a user message plus trailing context into one assistant
// reply. The two deployment variants plug in different backends behind this
// interface.
type Sender interface {
	Send(ctx context.Context, text string, history []Turn, sessionRef string) (Reply, error)
}

// Conversation coordinates one request/response cycle per user submission.
// At most one generation request is in flight at a time; submissions while
// busy are no-ops.
type Conversation struct {
	store  *Store
	sender Sender
	log    *slog.Logger
}

// NewConversation creates a conversation controller over the given store.
func NewConversation(store *Store, sender Sender, log *slog.Logger) *Conversation {
	if log == nil {
		log = slog.Default()
	}
	return &Conversation{store: store, sender: sender, log: log}
}

// Submit sends one user message to the drafting backend.
//
// Empty or whitespace-only text is a no-op, as is a submission while a prior
// request is still in flight. Otherwise the user turn is appended
// immediately, the request is issued with up to the last ten prior turns as
// context, and either the assistant reply or a fixed error turn is appended.
// Failures are swallowed here; nothing propagates to the caller.
func (c *Conversation) Submit(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if !c.store.TryBeginRequest() {
		c.log.Debug("submission refused, request already in flight")
		return
	}
	defer c.store.EndRequest()

	history := c.store.History(historyWindow)
	c.store.Append(NewTurn(RoleUser, text))

	reply, err := c.sender.Send(ctx, text, history, c.store.SessionRef())
	if err != nil {
		c.log.Warn("generation request failed", "error", err)
		c.store.Append(NewTurn(RoleAssistant, errorTurnContent))
		return
	}

	turn := NewTurn(RoleAssistant, reply.Content)
	turn.SessionRef = reply.SessionRef
	turn.LegalRefs = reply.LegalRefs
	c.store.SetSessionRef(reply.SessionRef)
	c.store.Append(turn)
	logging.WithSessionContext(c.log, reply.SessionRef).Debug("assistant reply recorded",
		"legal_refs", len(reply.LegalRefs))
}

// GenerateSender sends free-form messages to the petition generation
// endpoint, forwarding the trailing context window.
type GenerateSender struct {
	Client PetitionGenerator
}

// PetitionGenerator is the slice of the backend client the chat variant
// depends on.
type PetitionGenerator interface {
	GeneratePetition(ctx context.Context, req api.GenerateRequest) (*api.GenerateResponse, error)
}

// Send implements Sender for the free-form chat variant.
func (g *GenerateSender) Send(ctx context.Context, text string, history []Turn, _ string) (Reply, error) {
	req := api.GenerateRequest{Message: text}
	for _, t := range history {
		req.ConversationHistory = append(req.ConversationHistory, api.HistoryTurn{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}

	resp, err := g.Client.GeneratePetition(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Content:    resp.PetitionText,
		SessionRef: resp.ConversationID,
		LegalRefs:  resp.LegalContext,
	}, nil
}

// ChatBackend is the slice of the backend client the structured variant's
// chat thread depends on.
type ChatBackend interface {
	ChatTurn(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// ChatSender sends messages to the structured-variant chat endpoint,
// carrying the backend session reference so the backend keeps its context.
type ChatSender struct {
	Client ChatBackend
}

// Send implements Sender for the structured chat variant.
func (c *ChatSender) Send(ctx context.Context, text string, _ []Turn, sessionRef string) (Reply, error) {
	req := api.ChatRequest{Message: text}
	if sessionRef != "" {
		req.SessionID = &sessionRef
	}

	resp, err := c.Client.ChatTurn(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Content: resp.Response, SessionRef: resp.SessionID}, nil
}
