package entity

import (
	"time"
)

type ChatMessage struct {
	Id        string
	Role      string
	Body      string
	CreatedAt time.Time
	Citations []CitationReference
	Failed    bool
}

// Clone returns a copy that shares no citation slice with the receiver.
func (m ChatMessage) Clone() ChatMessage {
	if m.Citations != nil {
		m.Citations = append([]CitationReference(nil), m.Citations...)
	}
	return m
}
