package api

import "time"

// HistoryTurn is one prior exchange sent as conversational context with a
// generation request.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is the request body for the free-form petition generation
// endpoint.
type GenerateRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []HistoryTurn `json:"conversationHistory,omitempty"`
}

// GenerateResponse is the backend's answer to a free-form generation request.
type GenerateResponse struct {
	PetitionText   string   `json:"petitionText"`
	ConversationID string   `json:"conversationId"`
	LegalContext   []string `json:"legalContext,omitempty"`
}

// FeedbackRequest reports a human rating of a generated petition to the
// feedback collector.
type FeedbackRequest struct {
	ConversationID string  `json:"conversationId"`
	Rating         string  `json:"rating"`
	Comment        *string `json:"comment"`
	PetitionText   string  `json:"petitionText"`
}

// ChatRequest is the request body for a structured-variant chat turn.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"sessionId"`
}

// ChatResponse is the backend's answer to a structured chat turn.
// A non-empty Detail field signals a backend-side failure.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
	Detail    string `json:"detail,omitempty"`
}

// Parties identifies the petitioner and respondent of a petition.
type Parties struct {
	Petitioner string `json:"petitioner"`
	Respondent string `json:"respondent"`
}

// DraftRequest is the request body for structured draft generation.
type DraftRequest struct {
	CaseType     string   `json:"caseType"`
	Jurisdiction string   `json:"jurisdiction"`
	Facts        string   `json:"facts"`
	Parties      Parties  `json:"parties"`
	Prayers      []string `json:"prayers"`
	Annexures    []string `json:"annexures"`
}

// Section is one titled block of a generated draft. Content may contain
// markdown and must be treated as untrusted before any markup-aware
// rendering.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CheckStatus classifies the outcome of a single validation check.
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusWarn CheckStatus = "warn"
	CheckStatusFail CheckStatus = "fail"
)

// Check is one named validation check performed on a generated draft.
type Check struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message,omitempty"`
}

// Validation carries the backend's quality assessment of a draft.
type Validation struct {
	OverallScore float64 `json:"overallScore"`
	Checks       []Check `json:"checks"`
}

// Citation is one retrieved legal-source excerpt backing generated text.
type Citation struct {
	SourceTitle     string  `json:"sourceTitle"`
	Section         string  `json:"section,omitempty"`
	PageNumber      int     `json:"pageNumber,omitempty"`
	SimilarityScore float64 `json:"similarityScore"`
	Excerpt         string  `json:"excerpt"`
}

// Draft is a generated petition artifact, distinct from any chat thread.
type Draft struct {
	DraftID         string     `json:"draftId"`
	Sections        []Section  `json:"sections"`
	Validation      Validation `json:"validation"`
	Provenance      []Citation `json:"provenance,omitempty"`
	CoverageScore   float64    `json:"coverageScore"`
	TemplateVersion string     `json:"templateVersion,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty"`
}

// FinalizeRequest asks the backend to mark a draft approved.
type FinalizeRequest struct {
	DraftID      string `json:"draftId"`
	ApproverName string `json:"approverName"`
	ApproverID   string `json:"approverId"`
	Notes        string `json:"notes,omitempty"`
}

// FinalizeResult is the backend's acknowledgement of a finalization.
type FinalizeResult struct {
	DraftID string `json:"draftId"`
	Status  string `json:"status"`
	Detail  string `json:"detail,omitempty"`
}

// HealthStatus reports backend reachability and dependency health.
type HealthStatus struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Healthy reports whether the backend declared itself fully healthy.
func (h *HealthStatus) Healthy() bool {
	return h != nil && h.Status == "healthy"
}

// Template describes one available case-type template.
type Template struct {
	CaseType     string `json:"caseType"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Description  string `json:"description,omitempty"`
	Version      string `json:"version,omitempty"`
}

// TemplateList is the catalog of available case-type templates.
type TemplateList struct {
	Templates []Template `json:"templates"`
}
