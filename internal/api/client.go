// Package api provides a Go client for the petition drafting backend.
// It is the single service-boundary adapter: all request/response shapes
// are normalized here so the controllers never see raw backend payloads.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/verdictlabs/plead/internal/logging"
)

// Client provides HTTP methods for the drafting backend REST API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiPrefix  string // API prefix (e.g., "/api")
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithAPIPrefix sets the API prefix. Default is "/api".
func WithAPIPrefix(prefix string) Option {
	return func(client *Client) {
		client.apiPrefix = prefix
	}
}

// New creates a new drafting backend client.
// baseURL should be the backend address (e.g., "http://localhost:8000").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		apiPrefix: "/api",
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiURL builds a full API URL with the prefix.
func (c *Client) apiURL(path string) string {
	return c.baseURL + c.apiPrefix + path
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// postJSON issues a POST with a JSON body and decodes a JSON response into out.
// Non-2xx statuses are returned as errors carrying the response body.
func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	logging.API().Debug("request", "op", op, "path", path)

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

// getJSON issues a GET and decodes a JSON response into out.
func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	logging.API().Debug("request", "op", op, "path", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(path), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

// GeneratePetition sends a free-form case description (plus a trailing
// window of conversational context) and returns the generated petition text
// with its supporting legal context.
func (c *Client) GeneratePetition(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var resp GenerateResponse
	if err := c.postJSON(ctx, "generate petition", "/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitFeedback reports a human rating of a generated petition.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	return c.postJSON(ctx, "submit feedback", "/feedback", req, nil)
}

// ChatTurn sends one structured-variant chat message. The sessionID is nil
// on the first turn; the backend assigns one and it must be carried on all
// subsequent turns.
func (c *Client) ChatTurn(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.postJSON(ctx, "chat turn", "/chat", req, &resp); err != nil {
		return nil, err
	}
	if resp.Detail != "" {
		return nil, fmt.Errorf("chat turn: %s", resp.Detail)
	}
	return &resp, nil
}

// GenerateDraft produces a structured petition draft from case data.
// Section shapes are normalized at this boundary (see normalize.go).
func (c *Client) GenerateDraft(ctx context.Context, req DraftRequest) (*Draft, error) {
	var raw rawDraft
	if err := c.postJSON(ctx, "generate draft", "/drafts", req, &raw); err != nil {
		return nil, err
	}
	if raw.Detail != "" {
		return nil, fmt.Errorf("generate draft: %s", raw.Detail)
	}
	return normalizeDraft(&raw), nil
}

// FinalizeDraft asks the backend to mark a draft approved by the named
// approver.
func (c *Client) FinalizeDraft(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error) {
	var resp FinalizeResult
	path := "/drafts/" + url.PathEscape(req.DraftID) + "/finalize"
	if err := c.postJSON(ctx, "finalize draft", path, req, &resp); err != nil {
		return nil, err
	}
	if resp.Detail != "" {
		return nil, fmt.Errorf("finalize draft: %s", resp.Detail)
	}
	return &resp, nil
}

// ExportDocument fetches the rendered document for a draft as an opaque
// binary payload.
func (c *Client) ExportDocument(ctx context.Context, draftID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/drafts/"+url.PathEscape(draftID)+"/export"), nil)
	if err != nil {
		return nil, fmt.Errorf("export document: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("export document: status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("export document: read: %w", err)
	}
	return data, nil
}

// Health checks backend reachability and dependency status.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, "health check", "/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListTemplates loads the catalog of available case-type templates.
func (c *Client) ListTemplates(ctx context.Context) (*TemplateList, error) {
	var list TemplateList
	if err := c.getJSON(ctx, "list templates", "/templates", &list); err != nil {
		return nil, err
	}
	return &list, nil
}
