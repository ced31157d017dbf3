package api

import (
	"fmt"
	"time"
)

// rawSection tolerates the several field names backends have used for a
// section's title and body. Exactly one canonical Section comes out.
type rawSection struct {
	Title       string `json:"title"`
	SectionName string `json:"section_name"`
	Label       string `json:"label"`
	Content     string `json:"content"`
	Text        string `json:"text"`
	Body        string `json:"body"`
}

// rawDraft is the wire shape of a generated draft before normalization.
type rawDraft struct {
	DraftID         string       `json:"draftId"`
	Sections        []rawSection `json:"sections"`
	Validation      Validation   `json:"validation"`
	Provenance      []Citation   `json:"provenance"`
	CoverageScore   float64      `json:"coverageScore"`
	TemplateVersion string       `json:"templateVersion"`
	CreatedAt       time.Time    `json:"createdAt"`
	Detail          string       `json:"detail,omitempty"`
}

// normalizeSection maps whichever source fields are present onto the
// canonical Section. The fallback title is positional so a draft with
// unlabeled sections still renders deterministically.
func normalizeSection(raw rawSection, index int) Section {
	title := raw.Title
	if title == "" {
		title = raw.SectionName
	}
	if title == "" {
		title = raw.Label
	}
	if title == "" {
		title = fmt.Sprintf("Section %d", index+1)
	}

	content := raw.Content
	if content == "" {
		content = raw.Text
	}
	if content == "" {
		content = raw.Body
	}

	return Section{Title: title, Content: content}
}

// normalizeDraft converts a raw wire draft into the canonical Draft.
// This runs exactly once at ingestion; nothing downstream sees raw shapes.
func normalizeDraft(raw *rawDraft) *Draft {
	d := &Draft{
		DraftID:         raw.DraftID,
		Sections:        make([]Section, 0, len(raw.Sections)),
		Validation:      raw.Validation,
		Provenance:      raw.Provenance,
		CoverageScore:   raw.CoverageScore,
		TemplateVersion: raw.TemplateVersion,
		CreatedAt:       raw.CreatedAt,
	}
	for i, s := range raw.Sections {
		d.Sections = append(d.Sections, normalizeSection(s, i))
	}
	return d
}
