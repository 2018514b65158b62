package dto

import (
	"time"

	"github.com/google/uuid"
)

// SessionSnapshot is the read-only view presentation renders from.
type SessionSnapshot struct {
	DisclaimerAccepted bool          `json:"disclaimer_accepted"`
	Documents          []DocumentDTO `json:"documents"`
	Messages           []MessageDTO  `json:"messages"`
	Loading            bool          `json:"loading"`
	Uploading          bool          `json:"uploading"`
	Error              string        `json:"error,omitempty"`
	Preview            *PreviewDTO   `json:"preview,omitempty"`
	HasHistory         bool          `json:"has_history"`
	CanAsk             bool          `json:"can_ask"`
}

type DocumentDTO struct {
	Id         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	TypeLabel  string    `json:"type_label"`
	SizeBytes  int64     `json:"size_bytes"`
	SizeLabel  string    `json:"size_label"`
	UploadedAt time.Time `json:"uploaded_at"`
	Status     string    `json:"status"`
}

type MessageDTO struct {
	Id        string        `json:"id"`
	Role      string        `json:"role"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"created_at"`
	Citations []CitationDTO `json:"citations,omitempty"`
	Failed    bool          `json:"failed,omitempty"`
}

type CitationDTO struct {
	DocumentName string `json:"document_name"`
	Locator      string `json:"locator"`
	Source       string `json:"source"` // "<document name> - <locator>"
}

// PreviewDTO is an open citation preview with its highlighted text.
type PreviewDTO struct {
	DocumentId   uuid.UUID     `json:"document_id"`
	DocumentName string        `json:"document_name"`
	Citations    []CitationDTO `json:"citations"`
	CitationList string        `json:"citation_list"`
	Segments     []SegmentDTO  `json:"segments"`
	Warnings     []string      `json:"warnings,omitempty"`
}

type SegmentDTO struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
	Term        string `json:"term,omitempty"`
}
