package contract

import (
	"ai-docchat-core/internal/entity"
)

type ConversationRepository interface {
	Append(message entity.ChatMessage)
	List() []entity.ChatMessage
	Count() int
	Seed() entity.ChatMessage
	Reset()
	MarkFailed(messageId string) error

	SetLoading(loading bool)
	Loading() bool

	// SetError stores a banner message that clears itself after the configured delay.
	// An empty message clears immediately.
	SetError(message string)
	// ClearError removes the banner and returns the message it held, "" if none.
	ClearError() string
	Error() string
}
