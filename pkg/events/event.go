package events

import "time"

// Event defines the contract for all session events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_UPLOADED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New stamps an event with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = make(map[string]interface{})
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

const (
	DisclaimerAccepted = "DISCLAIMER_ACCEPTED"
	UploadStarted      = "UPLOAD_STARTED"
	DocumentUploaded   = "DOCUMENT_UPLOADED"
	UploadFailed       = "UPLOAD_FAILED"
	DocumentDeleted    = "DOCUMENT_DELETED"
	MessageAppended    = "MESSAGE_APPENDED"
	MessageFailed      = "MESSAGE_FAILED"
	LoadingChanged     = "LOADING_CHANGED"
	HistoryCleared     = "HISTORY_CLEARED"
	PreviewOpened      = "PREVIEW_OPENED"
	PreviewClosed      = "PREVIEW_CLOSED"
	ErrorSet           = "ERROR_SET"
	ErrorCleared       = "ERROR_CLEARED"
	CitationUnresolved = "CITATION_UNRESOLVED"
)
